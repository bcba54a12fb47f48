package fat32

import (
	"github.com/nqwku/fat32emu/blockdev"
)

// firstSectorOfCluster maps a cluster number to its first absolute sector.
//
// Note: the original source this module is based on computed
// first_data_sector + (c+2)*sectors_per_cluster, an off-by-four bug. This is
// the corrected (c-2) form required by the FAT32 specification (spec.md §4.3,
// §9).
func firstSectorOfCluster(geom Geometry, c ClusterID) SectorID {
	return geom.FirstDataSector + SectorID((uint32(c)-2)*geom.SectorsPerCluster)
}

// ReadCluster reads exactly one cluster's worth of bytes into buf, which
// must be geom.BytesPerCluster bytes long.
func ReadCluster(dev blockdev.Device, geom Geometry, c ClusterID, buf []byte) error {
	sector := firstSectorOfCluster(geom, c)
	return dev.ReadSectors(uint32(sector), geom.SectorsPerCluster, buf)
}

// WriteCluster writes exactly one cluster's worth of bytes from buf, which
// must be geom.BytesPerCluster bytes long.
func WriteCluster(dev blockdev.Device, geom Geometry, c ClusterID, buf []byte) error {
	sector := firstSectorOfCluster(geom, c)
	return dev.WriteSectors(uint32(sector), geom.SectorsPerCluster, buf)
}
