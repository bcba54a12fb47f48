package main

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/nqwku/fat32emu/fat32"
)

// direntRow is the CSV projection of a directory entry for the dump
// subcommand, tagged for gocsv the way dargueta-disko's DiskGeometry is.
type direntRow struct {
	Name       string `csv:"name"`
	IsDir      bool   `csv:"is_dir"`
	SizeBytes  uint32 `csv:"size_bytes"`
	Cluster    uint32 `csv:"first_cluster"`
	Attributes uint8  `csv:"attributes"`
}

func writeDirentCSV(entries []*fat32.DirEntry, w io.Writer) error {
	rows := make([]*direntRow, len(entries))
	for i, e := range entries {
		rows[i] = &direntRow{
			Name:       e.Name(),
			IsDir:      e.IsDir(),
			SizeBytes:  e.FileSize,
			Cluster:    uint32(e.FirstCluster()),
			Attributes: e.Attributes,
		}
	}
	return gocsv.Marshal(rows, w)
}
