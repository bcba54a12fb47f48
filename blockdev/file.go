package blockdev

import (
	"fmt"
	"io"
	"os"

	fserrors "github.com/nqwku/fat32emu/errors"
)

// DefaultImageSectors is the sector count backing a freshly created image
// when the caller doesn't specify a size: 20 MiB / 512 bytes, the minimum
// image size spec.md requires a fresh backing store to have.
const DefaultImageSectors = (20 * 1024 * 1024) / SectorSize

// FileDevice is a Device backed by a flat file on disk. If the file doesn't
// exist when OpenFile is called, it's created and zero-filled out to the
// requested size.
type FileDevice struct {
	file    *os.File
	sectors uint32
}

// OpenFile opens (creating if necessary) the image at path. If the file is
// newly created, it is zero-filled to totalSectors sectors; if it already
// exists, totalSectors is ignored and the size is derived from the file.
func OpenFile(path string, totalSectors uint32) (*FileDevice, error) {
	if totalSectors == 0 {
		totalSectors = DefaultImageSectors
	}

	existed := true
	if _, err := os.Stat(path); os.IsNotExist(err) {
		existed = false
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fserrors.IOFailed.Wrap(err)
	}

	dev := &FileDevice{file: f}
	if existed {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fserrors.IOFailed.Wrap(err)
		}
		dev.sectors = uint32(info.Size() / SectorSize)
		return dev, nil
	}

	size := int64(totalSectors) * SectorSize
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fserrors.IOFailed.Wrap(err)
	}
	dev.sectors = totalSectors
	return dev, nil
}

func (d *FileDevice) Close() error {
	return d.file.Close()
}

func (d *FileDevice) TotalSectors() uint32 {
	return d.sectors
}

func (d *FileDevice) ReadSector(sector uint32, buf []byte) error {
	return d.ReadSectors(sector, 1, buf)
}

func (d *FileDevice) WriteSector(sector uint32, buf []byte) error {
	return d.WriteSectors(sector, 1, buf)
}

func (d *FileDevice) ReadSectors(start uint32, count uint32, buf []byte) error {
	if err := checkBounds(start, count, d.sectors, buf); err != nil {
		return err
	}

	n, err := d.file.ReadAt(buf, int64(start)*SectorSize)
	if err != nil && err != io.EOF {
		return fserrors.IOFailed.Wrap(err)
	}
	if n != len(buf) {
		return fserrors.IOFailed.WithMessage(
			fmt.Sprintf("short read: got %d of %d bytes", n, len(buf)))
	}
	return nil
}

func (d *FileDevice) WriteSectors(start uint32, count uint32, buf []byte) error {
	if err := checkBounds(start, count, d.sectors, buf); err != nil {
		return err
	}

	n, err := d.file.WriteAt(buf, int64(start)*SectorSize)
	if err != nil {
		return fserrors.IOFailed.Wrap(err)
	}
	if n != len(buf) {
		return fserrors.IOFailed.WithMessage(
			fmt.Sprintf("short write: wrote %d of %d bytes", n, len(buf)))
	}
	return d.file.Sync()
}
