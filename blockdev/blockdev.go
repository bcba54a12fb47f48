// Package blockdev implements the sector-granular block-device abstraction
// that the filesystem core is built on top of. It is deliberately the only
// place in this module that knows about raw files or in-memory byte slices;
// everything above it (package fat32) only ever deals in sector numbers and
// byte buffers.
package blockdev

import (
	"fmt"

	fserrors "github.com/nqwku/fat32emu/errors"
)

// SectorSize is the only sector size this package's devices support. FAT32
// volumes with a different BytesPerSector exist in the wild, but the spec
// this module implements only accepts 512.
const SectorSize = 512

// Device is the block-device contract consumed by package fat32. All reads
// and writes are in whole sectors; a short read or write is always reported
// as an error rather than a partial result.
type Device interface {
	// TotalSectors returns the fixed size of the backing store, in sectors.
	TotalSectors() uint32

	// ReadSector reads exactly one SectorSize-byte sector into buf.
	ReadSector(sector uint32, buf []byte) error

	// WriteSector writes exactly one SectorSize-byte sector from buf. The
	// write must be durable (or flushed) by the time this returns.
	WriteSector(sector uint32, buf []byte) error

	// ReadSectors reads `count` contiguous sectors starting at `start` into
	// buf, which must be exactly count*SectorSize bytes long.
	ReadSectors(start uint32, count uint32, buf []byte) error

	// WriteSectors writes `count` contiguous sectors starting at `start`
	// from buf, which must be exactly count*SectorSize bytes long.
	WriteSectors(start uint32, count uint32, buf []byte) error
}

// checkBounds validates that a read/write of `count` sectors starting at
// `start` fits within a device with `total` sectors, and that `buf` is
// exactly the right length. Shared by every Device implementation so they
// all reject out-of-range I/O the same way.
func checkBounds(start, count, total uint32, buf []byte) error {
	if count == 0 {
		return fserrors.InvalidArgument.WithMessage("sector count must be nonzero")
	}
	if uint64(start)+uint64(count) > uint64(total) {
		return fserrors.IOFailed.WithMessage(
			fmt.Sprintf("sectors [%d, %d) out of range for device of %d sectors", start, start+count, total))
	}
	if uint32(len(buf)) != count*SectorSize {
		return fserrors.InvalidArgument.WithMessage(
			fmt.Sprintf("buffer is %d bytes, want %d for %d sectors", len(buf), count*SectorSize, count))
	}
	return nil
}
