package fat32

import (
	"time"

	"github.com/nqwku/fat32emu/blockdev"
	fserrors "github.com/nqwku/fat32emu/errors"
)

// Volume is the mount state the spec's facade holds: the boot sector image,
// the FAT cache, derived geometry, the current directory cluster and path,
// and whether the device actually carries a recognized FAT32 volume
// (spec.md §3 "Mount state"). A Volume is not safe for concurrent use from
// more than one goroutine (spec.md §5).
type Volume struct {
	dev   blockdev.Device
	boot  *BootSector
	fat   *FATCache
	geom  Geometry

	currentCluster ClusterID
	currentPath    string
	formatted      bool
}

// Mount reads sector 0 of dev and, if it's a recognized FAT32 volume, loads
// the FAT cache and geometry. An unrecognized volume is not an error: Mount
// succeeds with Formatted() == false, and only subsequent operations refuse
// with errors.NotFormatted (spec.md §4.1).
func Mount(dev blockdev.Device) (*Volume, error) {
	v := &Volume{dev: dev, currentPath: "/"}

	sector0 := make([]byte, blockdev.SectorSize)
	if err := dev.ReadSector(0, sector0); err != nil {
		return nil, err
	}

	bs, err := DecodeBootSector(sector0)
	if err != nil {
		return nil, err
	}

	if err := IsFAT32(sector0, bs); err != nil {
		v.boot = bs
		return v, nil
	}

	geom := DeriveGeometry(bs)
	fat, err := LoadFATCache(dev, geom)
	if err != nil {
		return nil, err
	}

	v.boot = bs
	v.geom = geom
	v.fat = fat
	v.currentCluster = geom.RootCluster
	v.formatted = true
	return v, nil
}

// Formatted reports whether the mounted device carries a recognized FAT32
// volume.
func (v *Volume) Formatted() bool {
	return v.formatted
}

// CurrentPath returns the canonical absolute path of the current directory.
func (v *Volume) CurrentPath() string {
	return v.currentPath
}

func (v *Volume) requireFormatted() error {
	if !v.formatted {
		return fserrors.NotFormatted
	}
	return nil
}

// Format lays down a fresh FAT32 volume on the mounted device (spec.md
// §4.1): boot sector, zeroed FAT with entries 0/1/root populated, and a
// root directory cluster holding "." and "..". On success the volume
// becomes mounted at "/" with the new geometry.
func (v *Volume) Format(now time.Time) error {
	total := v.dev.TotalSectors()
	bs := NewFormattedBootSector(total, now)

	if err := v.dev.WriteSector(0, EncodeBootSector(bs)); err != nil {
		return err
	}

	geom := DeriveGeometry(bs)

	fatSizeBytes := geom.FATSectors * geom.BytesPerSector
	entries := make([]uint32, fatSizeBytes/4)
	fat := &FATCache{dev: v.dev, geom: geom, entries: entries}
	fat.free = newFreeClusterIndex(fat)

	fat.setRaw(0, 0x0FFFFF00|uint32(bs.Media))
	fat.setRaw(1, 0x0FFFFFFF)
	fat.setRaw(geom.RootCluster, ClusterEOCHigh)

	if err := fat.persist(); err != nil {
		return err
	}

	rootBuf := make([]byte, geom.BytesPerCluster)
	dot := stampedEntryRaw(dotName(), AttrDirectory, geom.RootCluster, 0, now)
	dotdot := stampedEntryRaw(dotDotName(), AttrDirectory, geom.RootCluster, 0, now)
	copy(rootBuf[0:DirentSize], EncodeDirEntry(dot))
	copy(rootBuf[DirentSize:2*DirentSize], EncodeDirEntry(dotdot))

	if err := WriteCluster(v.dev, geom, geom.RootCluster, rootBuf); err != nil {
		return err
	}

	v.boot = bs
	v.geom = geom
	v.fat = fat
	v.currentCluster = geom.RootCluster
	v.currentPath = "/"
	v.formatted = true
	return nil
}

// resolveDirCluster returns the starting cluster for a List/walk operation:
// the current directory if path is empty, otherwise the cluster the
// absolute-or-relative path resolves to.
func (v *Volume) resolveDirCluster(path string) (ClusterID, error) {
	if path == "" {
		return v.currentCluster, nil
	}

	absolute := path
	if !IsAbsolutePath(path) {
		absolute = CombinePath(v.currentPath, path)
	} else {
		absolute = NormalizePath(path)
	}

	if absolute == "/" {
		return v.geom.RootCluster, nil
	}

	components, err := ParsePathComponents(absolute)
	if err != nil {
		return 0, err
	}
	return Descend(v.dev, v.geom, v.fat, v.geom.RootCluster, components)
}

// List returns the directory entries of path (or the current directory if
// path is empty), in on-disk order, including "." and ".." (spec.md §4.5,
// §8 end-to-end scenario 2).
func (v *Volume) List(path string) ([]*DirEntry, error) {
	if err := v.requireFormatted(); err != nil {
		return nil, err
	}

	dirCluster, err := v.resolveDirCluster(path)
	if err != nil {
		return nil, err
	}

	all, err := clusterChainDirents(v.dev, v.geom, v.fat, dirCluster)
	if err != nil {
		return nil, err
	}

	visible := make([]*DirEntry, 0, len(all))
	for _, e := range all {
		if e.IsNeverUsed() {
			continue
		}
		if e.IsDeleted() {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

// ChangeDir resolves path to canonical absolute form relative to the
// current directory, walks it, and only on success updates both the
// current cluster and current path — either both change or neither does
// (spec.md §4.9).
func (v *Volume) ChangeDir(path string) error {
	if err := v.requireFormatted(); err != nil {
		return err
	}

	absolute := path
	if !IsAbsolutePath(path) {
		absolute = CombinePath(v.currentPath, path)
	} else {
		absolute = NormalizePath(path)
	}

	if absolute == "/" {
		v.currentCluster = v.geom.RootCluster
		v.currentPath = "/"
		return nil
	}

	components, err := ParsePathComponents(absolute)
	if err != nil {
		return err
	}

	cluster, err := Descend(v.dev, v.geom, v.fat, v.geom.RootCluster, components)
	if err != nil {
		return err
	}

	v.currentCluster = cluster
	v.currentPath = absolute
	return nil
}

// Mkdir creates a subdirectory named name in the current directory
// (spec.md §4.7).
func (v *Volume) Mkdir(name string, now time.Time) error {
	if err := v.requireFormatted(); err != nil {
		return err
	}
	return CreateDirectory(v.dev, v.geom, v.fat, v.currentCluster, name, now)
}

// Touch creates a zero-length file named name in the current directory
// (spec.md §4.7).
func (v *Volume) Touch(name string, now time.Time) error {
	if err := v.requireFormatted(); err != nil {
		return err
	}
	return CreateFile(v.dev, v.geom, v.fat, v.currentCluster, name, now)
}
