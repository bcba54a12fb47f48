package fat32

import (
	"github.com/boljen/go-bitmap"

	fserrors "github.com/nqwku/fat32emu/errors"
)

// freeClusterIndex mirrors "cluster i is free" as a bit in a go-bitmap,
// kept in lock-step with a FATCache's entries so Allocate's first-fit scan
// (spec.md §4.2) doesn't have to re-mask every 32-bit FAT word on each
// probe. The scan order and result are unchanged from a plain linear scan
// over the FAT — bit index i corresponds exactly to FAT entry i.
type freeClusterIndex struct {
	bits bitmap.Bitmap
}

func newFreeClusterIndex(c *FATCache) *freeClusterIndex {
	idx := &freeClusterIndex{bits: bitmap.New(len(c.entries))}
	for i, v := range c.entries {
		idx.bits.Set(i, (v&clusterValueMask) != ClusterFree)
	}
	return idx
}

// noteValue updates the bit for cluster after its FAT entry changes to
// maskedValue (already masked to the low 28 bits).
func (idx *freeClusterIndex) noteValue(cluster ClusterID, maskedValue uint32) {
	idx.bits.Set(int(cluster), maskedValue != ClusterFree)
}

// firstFree returns the lowest index in [2, limit) whose bit is clear, or
// -1 if none is free.
func (idx *freeClusterIndex) firstFree(limit uint32) int {
	for i := 2; i < int(limit); i++ {
		if !idx.bits.Get(i) {
			return i
		}
	}
	return -1
}

// Allocate finds the first free cluster (FAT entry == 0x00000000), marks it
// end-of-chain, persists, and returns its index. It returns
// fserrors.OutOfSpace if no free cluster exists, leaving the FAT unchanged
// (spec.md §4.2, §8 boundary behavior).
func (c *FATCache) Allocate() (ClusterID, error) {
	freeIndex := c.free.firstFree(c.clusterCount())
	if freeIndex < 0 {
		return 0, fserrors.OutOfSpace
	}

	cluster := ClusterID(freeIndex)
	if err := c.Set(cluster, ClusterEOCHigh); err != nil {
		return 0, err
	}
	return cluster, nil
}

// Free resets cluster's FAT entry back to 0x00000000. Used to roll back a
// cluster allocated earlier in an operation that subsequently failed.
func (c *FATCache) Free(cluster ClusterID) error {
	return c.Set(cluster, ClusterFree)
}
