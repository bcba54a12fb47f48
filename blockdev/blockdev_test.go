package blockdev_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nqwku/fat32emu/blockdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeviceReadWriteRoundTrip(t *testing.T) {
	dev := blockdev.NewMemoryDevice(64)
	assert.EqualValues(t, 64, dev.TotalSectors())

	payload := bytes.Repeat([]byte{0xAB}, blockdev.SectorSize)
	require.NoError(t, dev.WriteSector(3, payload))

	readBack := make([]byte, blockdev.SectorSize)
	require.NoError(t, dev.ReadSector(3, readBack))
	assert.True(t, bytes.Equal(payload, readBack))
}

func TestMemoryDeviceRejectsOutOfRange(t *testing.T) {
	dev := blockdev.NewMemoryDevice(4)
	buf := make([]byte, blockdev.SectorSize)

	assert.Error(t, dev.ReadSector(4, buf), "sector 4 is out of range for a 4-sector device")
	assert.Error(t, dev.WriteSectors(3, 2, make([]byte, 2*blockdev.SectorSize)))
}

func TestMemoryDeviceRejectsWrongBufferSize(t *testing.T) {
	dev := blockdev.NewMemoryDevice(4)
	assert.Error(t, dev.ReadSector(0, make([]byte, blockdev.SectorSize-1)))
}

func TestFileDeviceCreatesAndSizesNewImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")

	dev, err := blockdev.OpenFile(path, 128)
	require.NoError(t, err)
	defer dev.Close()

	assert.EqualValues(t, 128, dev.TotalSectors())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 128*blockdev.SectorSize, info.Size())
}

func TestFileDeviceReopenDerivesSizeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")

	first, err := blockdev.OpenFile(path, 32)
	require.NoError(t, err)
	first.Close()

	second, err := blockdev.OpenFile(path, 9999)
	require.NoError(t, err)
	defer second.Close()

	assert.EqualValues(t, 32, second.TotalSectors(), "existing file's size should win over the requested size")
}

func TestFileDeviceReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	dev, err := blockdev.OpenFile(path, 16)
	require.NoError(t, err)
	defer dev.Close()

	payload := bytes.Repeat([]byte{0x7E}, 3*blockdev.SectorSize)
	require.NoError(t, dev.WriteSectors(2, 3, payload))

	readBack := make([]byte, 3*blockdev.SectorSize)
	require.NoError(t, dev.ReadSectors(2, 3, readBack))
	assert.True(t, bytes.Equal(payload, readBack))
}
