package fat32

import (
	"time"

	"github.com/nqwku/fat32emu/blockdev"
	fserrors "github.com/nqwku/fat32emu/errors"
)

// existsInDir reports whether name already has a live entry in dirCluster.
func existsInDir(dev blockdev.Device, geom Geometry, fat *FATCache, dirCluster ClusterID, name string) (bool, error) {
	_, err := findLiveEntry(dev, geom, fat, dirCluster, name)
	if err == nil {
		return true, nil
	}
	if err == fserrors.NotFound {
		return false, nil
	}
	return false, err
}

func stampedEntry(name string, attrs uint8, cluster ClusterID, size uint32, now time.Time) *DirEntry {
	return stampedEntryRaw(ToShortName(name), attrs, cluster, size, now)
}

func stampedEntryRaw(shortName [11]byte, attrs uint8, cluster ClusterID, size uint32, now time.Time) *DirEntry {
	date := fatDate(now.Year(), int(now.Month()), now.Day())
	clock := fatTime(now.Hour(), now.Minute(), now.Second())

	e := &DirEntry{
		ShortName:      shortName,
		Attributes:     attrs,
		CreateTime:     clock,
		CreateDate:     date,
		LastAccessDate: date,
		WriteTime:      clock,
		WriteDate:      date,
		FileSize:       size,
	}
	e.SetFirstCluster(cluster)
	return e
}

// CreateDirectory implements mkdir (spec.md §4.7): allocates a cluster for
// the new directory's contents, finds or extends a free slot in
// dirCluster, writes the DIR entry there, then populates the new cluster
// with "." and ".." entries. Any failure rolls back the newly allocated
// cluster.
func CreateDirectory(dev blockdev.Device, geom Geometry, fat *FATCache, dirCluster ClusterID, name string, now time.Time) error {
	if err := ValidateFilename(name); err != nil {
		return err
	}

	exists, err := existsInDir(dev, geom, fat, dirCluster, name)
	if err != nil {
		return err
	}
	if exists {
		return fserrors.AlreadyExists
	}

	newDirCluster, err := fat.Allocate()
	if err != nil {
		return err
	}

	slot, err := findFreeSlot(dev, geom, fat, dirCluster)
	if err != nil {
		fat.Free(newDirCluster)
		return err
	}

	entry := stampedEntry(name, AttrDirectory, newDirCluster, 0, now)
	if err := writeEntry(dev, geom, slot, entry); err != nil {
		fat.Free(newDirCluster)
		return err
	}

	buf := make([]byte, geom.BytesPerCluster)
	dot := stampedEntryRaw(dotName(), AttrDirectory, newDirCluster, 0, now)
	dotdot := stampedEntryRaw(dotDotName(), AttrDirectory, dirCluster, 0, now)

	copy(buf[0:DirentSize], EncodeDirEntry(dot))
	copy(buf[DirentSize:2*DirentSize], EncodeDirEntry(dotdot))

	if err := WriteCluster(dev, geom, newDirCluster, buf); err != nil {
		fat.Free(newDirCluster)
		return err
	}

	return nil
}

// CreateFile implements touch (spec.md §4.7): a zero-length file holds no
// cluster until data is written, so its first-cluster fields are left 0.
func CreateFile(dev blockdev.Device, geom Geometry, fat *FATCache, dirCluster ClusterID, name string, now time.Time) error {
	if err := ValidateFilename(name); err != nil {
		return err
	}

	exists, err := existsInDir(dev, geom, fat, dirCluster, name)
	if err != nil {
		return err
	}
	if exists {
		return fserrors.AlreadyExists
	}

	slot, err := findFreeSlot(dev, geom, fat, dirCluster)
	if err != nil {
		return err
	}

	entry := stampedEntry(name, AttrArchive, 0, 0, now)
	return writeEntry(dev, geom, slot, entry)
}

func dotName() [11]byte {
	var n [11]byte
	for i := range n {
		n[i] = ' '
	}
	n[0] = '.'
	return n
}

func dotDotName() [11]byte {
	var n [11]byte
	for i := range n {
		n[i] = ' '
	}
	n[0] = '.'
	n[1] = '.'
	return n
}
