package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nqwku/fat32emu/blockdev"
	"github.com/nqwku/fat32emu/fat32"
)

func main() {
	app := cli.App{
		Usage: "Inspect and build FAT32 disk images",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "Create or wipe a FAT32 image",
				Action:    formatImage,
				ArgsUsage: "IMAGE_FILE",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "sectors",
						Usage: "total sector count for a new image",
						Value: uint64(blockdev.DefaultImageSectors),
					},
				},
			},
			{
				Name:      "ls",
				Usage:     "List a directory's entries",
				Action:    listDirectory,
				ArgsUsage: "IMAGE_FILE [PATH]",
			},
			{
				Name:      "mkdir",
				Usage:     "Create a subdirectory of the root",
				Action:    makeDirectory,
				ArgsUsage: "IMAGE_FILE NAME",
			},
			{
				Name:      "touch",
				Usage:     "Create a zero-length file in the root",
				Action:    touchFile,
				ArgsUsage: "IMAGE_FILE NAME",
			},
			{
				Name:      "dump",
				Usage:     "Export a directory's entries as CSV",
				Action:    dumpDirectory,
				ArgsUsage: "IMAGE_FILE [PATH]",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func openImage(path string) (*fat32.Volume, *blockdev.FileDevice, error) {
	dev, err := blockdev.OpenFile(path, blockdev.DefaultImageSectors)
	if err != nil {
		return nil, nil, err
	}

	vol, err := fat32.Mount(dev)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return vol, dev, nil
}

func formatImage(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("missing IMAGE_FILE argument")
	}

	dev, err := blockdev.OpenFile(c.Args().First(), uint32(c.Uint64("sectors")))
	if err != nil {
		return err
	}
	defer dev.Close()

	vol, err := fat32.Mount(dev)
	if err != nil {
		return err
	}
	return vol.Format(time.Now())
}

func listDirectory(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("missing IMAGE_FILE argument")
	}

	vol, dev, err := openImage(c.Args().First())
	if err != nil {
		return err
	}
	defer dev.Close()

	path := c.Args().Get(1)
	entries, err := vol.List(path)
	if err != nil {
		return err
	}

	for _, e := range entries {
		kind := "FILE"
		if e.IsDir() {
			kind = "DIR "
		}
		fmt.Printf("%s  %-11s  %8d  cluster %d\n", kind, e.Name(), e.FileSize, e.FirstCluster())
	}
	return nil
}

func makeDirectory(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: mkdir IMAGE_FILE NAME")
	}

	vol, dev, err := openImage(c.Args().First())
	if err != nil {
		return err
	}
	defer dev.Close()

	return vol.Mkdir(c.Args().Get(1), time.Now())
}

func touchFile(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: touch IMAGE_FILE NAME")
	}

	vol, dev, err := openImage(c.Args().First())
	if err != nil {
		return err
	}
	defer dev.Close()

	return vol.Touch(c.Args().Get(1), time.Now())
}

func dumpDirectory(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("missing IMAGE_FILE argument")
	}

	vol, dev, err := openImage(c.Args().First())
	if err != nil {
		return err
	}
	defer dev.Close()

	path := c.Args().Get(1)
	entries, err := vol.List(path)
	if err != nil {
		return err
	}

	return writeDirentCSV(entries, os.Stdout)
}
