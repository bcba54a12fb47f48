package fat32

import (
	"strings"

	"github.com/nqwku/fat32emu/blockdev"
	fserrors "github.com/nqwku/fat32emu/errors"
)

// maxComponentLen is the widest a single path component may be: an 8.3 name
// plus its dot, i.e. "FILENAME.EXT" (spec.md §4.5).
const maxComponentLen = 12

// ParsePathComponents strips the leading "/" from an absolute path, splits
// it on "/", discards empty segments produced by runs of slashes, and
// rejects any component wider than maxComponentLen. Relative paths are not
// accepted here — callers resolve them to absolute form with the path
// utilities before walking.
func ParsePathComponents(path string) ([]string, error) {
	if !IsAbsolutePath(path) {
		return nil, fserrors.InvalidArgument.WithMessage("path must be absolute")
	}

	var components []string
	for _, part := range strings.Split(path[1:], "/") {
		if part == "" {
			continue
		}
		if len(part) > maxComponentLen {
			return nil, fserrors.InvalidArgument.WithMessage("path component longer than 12 characters")
		}
		components = append(components, part)
	}
	return components, nil
}

// clusterChainDirents reads every directory entry in the chain starting at
// startCluster, stopping only at end-of-chain (not at a 0x00 terminator —
// spec.md §4.5 requires scanning past free slots that may be interleaved
// with live ones in a multi-cluster directory).
func clusterChainDirents(dev blockdev.Device, geom Geometry, fat *FATCache, startCluster ClusterID) ([]*DirEntry, error) {
	var all []*DirEntry
	buf := make([]byte, geom.BytesPerCluster)

	current := startCluster
	for current >= 2 && !IsEndOfChain(uint32(current)) {
		if err := ReadCluster(dev, geom, current, buf); err != nil {
			return nil, err
		}

		for i := 0; i < geom.DirentsPerCluster; i++ {
			offset := i * DirentSize
			all = append(all, DecodeDirEntry(buf[offset:offset+DirentSize]))
		}

		current = fat.Next(current)
	}
	return all, nil
}

// findLiveEntry scans dirCluster's chain for a live entry (not free, not
// deleted) whose short name matches name, converted through ToShortName.
// The first match wins (spec.md §4.5).
func findLiveEntry(dev blockdev.Device, geom Geometry, fat *FATCache, dirCluster ClusterID, name string) (*DirEntry, error) {
	target := ToShortName(name)

	entries, err := clusterChainDirents(dev, geom, fat, dirCluster)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.IsFree() {
			continue
		}
		if e.ShortName == target {
			return e, nil
		}
	}
	return nil, fserrors.NotFound
}

// Descend resolves a sequence of path components starting from root,
// scanning each directory in turn for the next component and requiring
// every intermediate match to be a directory (spec.md §4.5).
func Descend(dev blockdev.Device, geom Geometry, fat *FATCache, root ClusterID, components []string) (ClusterID, error) {
	current := root
	for _, component := range components {
		entry, err := findLiveEntry(dev, geom, fat, current, component)
		if err != nil {
			return 0, err
		}
		if !entry.IsDir() {
			return 0, fserrors.NotADirectory
		}
		current = entry.FirstCluster()
	}
	return current, nil
}
