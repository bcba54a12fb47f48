package blockdev

import (
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"

	fserrors "github.com/nqwku/fat32emu/errors"
)

// MemoryDevice is a Device backed entirely by RAM, used by the tests; the
// fatctl CLI always works on a FileDevice. The backing slice is pre-sized to its full
// capacity up front so bytesextra's ReadWriteSeeker never has to grow it;
// checkBounds keeps every access inside that fixed window.
type MemoryDevice struct {
	seeker  *bytesextra.ReadWriteSeeker
	sectors uint32
}

// NewMemoryDevice allocates a zero-filled in-memory image of totalSectors
// sectors.
func NewMemoryDevice(totalSectors uint32) *MemoryDevice {
	if totalSectors == 0 {
		totalSectors = DefaultImageSectors
	}

	buf := make([]byte, int64(totalSectors)*SectorSize)
	return &MemoryDevice{
		seeker:  bytesextra.NewReadWriteSeeker(buf),
		sectors: totalSectors,
	}
}

func (d *MemoryDevice) TotalSectors() uint32 {
	return d.sectors
}

func (d *MemoryDevice) ReadSector(sector uint32, buf []byte) error {
	return d.ReadSectors(sector, 1, buf)
}

func (d *MemoryDevice) WriteSector(sector uint32, buf []byte) error {
	return d.WriteSectors(sector, 1, buf)
}

func (d *MemoryDevice) ReadSectors(start uint32, count uint32, buf []byte) error {
	if err := checkBounds(start, count, d.sectors, buf); err != nil {
		return err
	}

	if _, err := d.seeker.Seek(int64(start)*SectorSize, io.SeekStart); err != nil {
		return fserrors.IOFailed.Wrap(err)
	}

	n, err := io.ReadFull(d.seeker, buf)
	if err != nil {
		return fserrors.IOFailed.Wrap(err)
	}
	if n != len(buf) {
		return fserrors.IOFailed.WithMessage(
			fmt.Sprintf("short read: got %d of %d bytes", n, len(buf)))
	}
	return nil
}

func (d *MemoryDevice) WriteSectors(start uint32, count uint32, buf []byte) error {
	if err := checkBounds(start, count, d.sectors, buf); err != nil {
		return err
	}

	if _, err := d.seeker.Seek(int64(start)*SectorSize, io.SeekStart); err != nil {
		return fserrors.IOFailed.Wrap(err)
	}

	n, err := d.seeker.Write(buf)
	if err != nil {
		return fserrors.IOFailed.Wrap(err)
	}
	if n != len(buf) {
		return fserrors.IOFailed.WithMessage(
			fmt.Sprintf("short write: wrote %d of %d bytes", n, len(buf)))
	}
	return nil
}
