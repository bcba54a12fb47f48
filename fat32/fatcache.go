package fat32

import (
	"encoding/binary"

	"github.com/nqwku/fat32emu/blockdev"
	fserrors "github.com/nqwku/fat32emu/errors"
)

// FATCache is the in-memory copy of the primary File Allocation Table. Every
// mutation is immediately mirrored to all FAT copies on the backing device —
// there is no write batching, matching spec.md §4.2's "every mutation
// triggers a full-FAT persist" rule.
type FATCache struct {
	dev     blockdev.Device
	geom    Geometry
	entries []uint32 // raw 32-bit words, high 4 bits preserved as loaded
	free    *freeClusterIndex
}

// LoadFATCache reads the primary FAT into memory and builds the free-cluster
// accelerator described in DESIGN.md (go-bitmap mirror of entries[i]==0).
func LoadFATCache(dev blockdev.Device, geom Geometry) (*FATCache, error) {
	buf := make([]byte, geom.FATSectors*geom.BytesPerSector)
	if err := dev.ReadSectors(uint32(geom.ReservedSectors), geom.FATSectors, buf); err != nil {
		return nil, err
	}

	entries := make([]uint32, len(buf)/4)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}

	cache := &FATCache{dev: dev, geom: geom, entries: entries}
	cache.free = newFreeClusterIndex(cache)
	return cache, nil
}

// persist writes the entire cache to every FAT copy in sequence, aborting on
// the first failure (spec.md §4.2).
func (c *FATCache) persist() error {
	buf := make([]byte, len(c.entries)*4)
	for i, v := range c.entries {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}

	for copyIndex := uint32(0); copyIndex < c.geom.FATCount; copyIndex++ {
		start := uint32(c.geom.ReservedSectors) + copyIndex*c.geom.FATSectors
		if err := c.dev.WriteSectors(start, c.geom.FATSectors, buf); err != nil {
			return err
		}
	}
	return nil
}

func (c *FATCache) clusterCount() uint32 {
	return c.geom.DataClusterCount + 2
}

func (c *FATCache) inRange(cluster ClusterID) bool {
	return cluster >= 2 && uint32(cluster) < c.clusterCount()
}

// Next returns the masked next-cluster value for cluster c. Out-of-range
// clusters report end-of-chain rather than erroring, per spec.md §4.2.
func (c *FATCache) Next(cluster ClusterID) ClusterID {
	if !c.inRange(cluster) {
		return ClusterEOCHigh
	}
	return ClusterID(c.entries[cluster] & clusterValueMask)
}

// Set writes value into cluster c's FAT entry, zeroing the reserved high
// bits, and persists the change to every FAT copy. The caller is responsible
// for supplying proper end-of-chain/free/next-cluster semantics in value.
func (c *FATCache) Set(cluster ClusterID, value uint32) error {
	if !c.inRange(cluster) {
		return fserrors.InvalidArgument.WithMessage("cluster out of range")
	}

	masked := value & clusterValueMask
	c.entries[cluster] = masked
	c.free.noteValue(cluster, masked)

	return c.persist()
}

// setRaw installs a FAT entry value without persisting — used only while
// building the initial cache during Format, before the first persist.
func (c *FATCache) setRaw(cluster ClusterID, value uint32) {
	c.entries[cluster] = value
	if cluster < ClusterID(len(c.entries)) {
		c.free.noteValue(cluster, value&clusterValueMask)
	}
}
