package fat32

import (
	"github.com/nqwku/fat32emu/blockdev"
)

// freeSlot identifies one directory-entry-sized gap in a directory's
// cluster chain.
type freeSlot struct {
	cluster ClusterID
	index   int
}

// findFreeSlot scans dirCluster's chain for the first slot whose name byte
// is 0x00 or 0xE5. If the chain is exhausted without finding one, it extends
// the chain by a freshly allocated, zeroed cluster and reports index 0 of
// that new cluster (spec.md §4.6).
func findFreeSlot(dev blockdev.Device, geom Geometry, fat *FATCache, dirCluster ClusterID) (freeSlot, error) {
	buf := make([]byte, geom.BytesPerCluster)

	current := dirCluster
	var last ClusterID
	for current >= 2 && !IsEndOfChain(uint32(current)) {
		if err := ReadCluster(dev, geom, current, buf); err != nil {
			return freeSlot{}, err
		}

		for i := 0; i < geom.DirentsPerCluster; i++ {
			offset := i * DirentSize
			if buf[offset] == nameFreeTerminator || buf[offset] == nameDeletedMarker {
				return freeSlot{cluster: current, index: i}, nil
			}
		}

		last = current
		current = fat.Next(current)
	}

	newCluster, err := extendChain(dev, geom, fat, last)
	if err != nil {
		return freeSlot{}, err
	}
	return freeSlot{cluster: newCluster, index: 0}, nil
}

// extendChain allocates a new cluster, zero-writes it, and links tail to it
// (spec.md §4.2's chain extension). On failure the newly allocated cluster
// (if any) is freed before returning.
func extendChain(dev blockdev.Device, geom Geometry, fat *FATCache, tail ClusterID) (ClusterID, error) {
	next, err := fat.Allocate()
	if err != nil {
		return 0, err
	}

	zeroed := make([]byte, geom.BytesPerCluster)
	if err := WriteCluster(dev, geom, next, zeroed); err != nil {
		fat.Free(next)
		return 0, err
	}

	if err := fat.Set(tail, uint32(next)); err != nil {
		fat.Free(next)
		return 0, err
	}

	return next, nil
}

// writeEntry encodes entry and stores it at slot's (cluster, index),
// read-modify-writing the whole cluster it lives in (spec.md §4.6).
func writeEntry(dev blockdev.Device, geom Geometry, slot freeSlot, entry *DirEntry) error {
	buf := make([]byte, geom.BytesPerCluster)
	if err := ReadCluster(dev, geom, slot.cluster, buf); err != nil {
		return err
	}

	offset := slot.index * DirentSize
	copy(buf[offset:offset+DirentSize], EncodeDirEntry(entry))

	return WriteCluster(dev, geom, slot.cluster, buf)
}
