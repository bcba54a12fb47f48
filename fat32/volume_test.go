package fat32_test

import (
	"testing"
	"time"

	"github.com/nqwku/fat32emu/blockdev"
	fserrors "github.com/nqwku/fat32emu/errors"
	"github.com/nqwku/fat32emu/fat32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormattedVolume(t *testing.T, totalSectors uint32) *fat32.Volume {
	t.Helper()

	dev := blockdev.NewMemoryDevice(totalSectors)
	vol, err := fat32.Mount(dev)
	require.NoError(t, err)
	require.False(t, vol.Formatted())

	require.NoError(t, vol.Format(time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)))
	require.True(t, vol.Formatted())
	return vol
}

func entryNames(entries []*fat32.DirEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestMountUnformattedDeviceIsNotFormatted(t *testing.T) {
	dev := blockdev.NewMemoryDevice(4096)
	vol, err := fat32.Mount(dev)
	require.NoError(t, err)
	assert.False(t, vol.Formatted())

	_, err = vol.List("")
	assert.ErrorIs(t, err, fserrors.NotFormatted)
}

func TestFormatProducesRootWithDotEntries(t *testing.T) {
	vol := newFormattedVolume(t, 4096)

	entries, err := vol.List("/")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := entryNames(entries)
	assert.Contains(t, names, ".")
	assert.Contains(t, names, "..")

	for _, e := range entries {
		assert.True(t, e.IsDir())
	}
}

func TestMkdirCreatesVisibleSubdirectory(t *testing.T) {
	vol := newFormattedVolume(t, 4096)
	require.NoError(t, vol.Mkdir("testdir", time.Now()))

	entries, err := vol.List("/")
	require.NoError(t, err)

	var found *fat32.DirEntry
	for _, e := range entries {
		if e.Name() == "TESTDIR" {
			found = e
		}
	}
	require.NotNil(t, found, "expected TESTDIR entry in root listing")
	assert.True(t, found.IsDir())
}

func TestMkdirDuplicateNameFails(t *testing.T) {
	vol := newFormattedVolume(t, 4096)
	require.NoError(t, vol.Mkdir("testdir", time.Now()))
	assert.Error(t, vol.Mkdir("TESTDIR", time.Now()))
}

func TestTouchCreatesZeroLengthFile(t *testing.T) {
	vol := newFormattedVolume(t, 4096)
	require.NoError(t, vol.Touch("testfile.txt", time.Now()))

	entries, err := vol.List("/")
	require.NoError(t, err)

	var found *fat32.DirEntry
	for _, e := range entries {
		if e.Name() == "TESTFILE.TXT" {
			found = e
		}
	}
	require.NotNil(t, found, "expected TESTFILE.TXT entry in root listing")
	assert.False(t, found.IsDir())
	assert.EqualValues(t, 0, found.FileSize)
	assert.EqualValues(t, 0, found.FirstCluster())
	assert.EqualValues(t, fat32.AttrArchive, found.Attributes)
}

func TestChangeDirIntoSubdirectoryAndBackToRoot(t *testing.T) {
	vol := newFormattedVolume(t, 4096)
	require.NoError(t, vol.Mkdir("sub", time.Now()))

	require.NoError(t, vol.ChangeDir("sub"))
	assert.Equal(t, "/sub", vol.CurrentPath())

	entries, err := vol.List("")
	require.NoError(t, err)
	assert.Contains(t, entryNames(entries), ".")
	assert.Contains(t, entryNames(entries), "..")

	require.NoError(t, vol.ChangeDir("/"))
	assert.Equal(t, "/", vol.CurrentPath())
}

func TestChangeDirIntoNonexistentDirectoryFails(t *testing.T) {
	vol := newFormattedVolume(t, 4096)
	assert.Error(t, vol.ChangeDir("nosuch"))
}

func TestChangeDirIntoFileFails(t *testing.T) {
	vol := newFormattedVolume(t, 4096)
	require.NoError(t, vol.Touch("plain.txt", time.Now()))
	assert.Error(t, vol.ChangeDir("plain.txt"))
}

func TestMkdirExtendsDirectoryChainWhenClusterFills(t *testing.T) {
	vol := newFormattedVolume(t, 4096)

	// A 2048-byte cluster holds 64 32-byte entries; "." and ".." already
	// occupy two, so creating enough more entries forces the root's chain
	// to grow past its first cluster (spec.md §4.2 chain extension).
	for i := 0; i < 70; i++ {
		name := "D" + string(rune('A'+(i%26))) + string(rune('0'+(i/26)))
		require.NoError(t, vol.Mkdir(name, time.Now()))
	}

	entries, err := vol.List("/")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 72)
}
