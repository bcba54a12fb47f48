package fat32_test

import (
	"testing"

	"github.com/nqwku/fat32emu/fat32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeDirEntryRoundTrip(t *testing.T) {
	original := &fat32.DirEntry{
		ShortName:      fat32.ToShortName("readme.txt"),
		Attributes:     fat32.AttrArchive,
		CreateDate:     0x1234,
		CreateTime:     0x5678,
		LastAccessDate: 0x1234,
		WriteDate:      0x1234,
		WriteTime:      0x5678,
		FileSize:       4096,
	}
	original.SetFirstCluster(0x0A0B0C0D & 0x0FFFFFFF)

	encoded := fat32.EncodeDirEntry(original)
	require.Len(t, encoded, fat32.DirentSize)

	decoded := fat32.DecodeDirEntry(encoded)
	assert.Equal(t, original.ShortName, decoded.ShortName)
	assert.Equal(t, original.Attributes, decoded.Attributes)
	assert.Equal(t, original.FileSize, decoded.FileSize)
	assert.Equal(t, original.FirstCluster(), decoded.FirstCluster())
	assert.Equal(t, "README  TXT", string(decoded.ShortName[:]))
}

func TestDirEntrySlotStateMarkers(t *testing.T) {
	neverUsed := fat32.DecodeDirEntry(make([]byte, fat32.DirentSize))
	assert.True(t, neverUsed.IsNeverUsed())
	assert.True(t, neverUsed.IsFree())
	assert.False(t, neverUsed.IsDeleted())

	deletedBytes := make([]byte, fat32.DirentSize)
	deletedBytes[0] = 0xE5
	deleted := fat32.DecodeDirEntry(deletedBytes)
	assert.True(t, deleted.IsDeleted())
	assert.True(t, deleted.IsFree())
	assert.False(t, deleted.IsNeverUsed())
}

func TestDirEntryFirstClusterSplitAndCombine(t *testing.T) {
	e := &fat32.DirEntry{}
	e.SetFirstCluster(fat32.ClusterID(0x000A1234))
	assert.EqualValues(t, 0x000A, e.FirstClusterHigh)
	assert.EqualValues(t, 0x1234, e.FirstClusterLow)
	assert.EqualValues(t, 0x000A1234, e.FirstCluster())
}

func TestDirEntryIsDir(t *testing.T) {
	dir := &fat32.DirEntry{Attributes: fat32.AttrDirectory}
	file := &fat32.DirEntry{Attributes: fat32.AttrArchive}
	assert.True(t, dir.IsDir())
	assert.False(t, file.IsDir())
}
