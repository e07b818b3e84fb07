package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/layout"
	"github.com/example/locfs/pkg/volume"
)

func main() {
	app := cli.App{
		Name:      "mkfs-locfs",
		Usage:     "format an image file as an empty locfs volume",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "block-size",
				Usage: "bytes per block",
				Value: layout.DefaultBlockSize,
			},
			&cli.Uint64Flag{
				Name:  "inodes",
				Usage: "inode capacity",
				Value: layout.DefaultInodeCapacity,
			},
			&cli.Uint64Flag{
				Name:  "blocks",
				Usage: "data block capacity",
				Value: layout.DefaultDataBlockCapacity,
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return cli.Exit("usage: mkfs-locfs [options] IMAGE", 2)
			}
			params := volume.Params{
				BlockSize:         ctx.Uint64("block-size"),
				InodeCapacity:     ctx.Uint64("inodes"),
				DataBlockCapacity: ctx.Uint64("blocks"),
			}
			return format(ctx.Args().First(), params)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func format(path string, params volume.Params) error {
	g, err := params.Geometry()
	if err != nil {
		return fmt.Errorf("invalid volume parameters: %w", err)
	}
	dev, err := blockdev.CreateFile(path, params.BlockSize, g.TotalBlocks())
	if err != nil {
		return err
	}
	if err := volume.Format(dev, params); err != nil {
		dev.Close()
		return fmt.Errorf("formatting `%s`: %w", path, err)
	}
	if err := dev.Close(); err != nil {
		return fmt.Errorf("closing `%s`: %w", path, err)
	}

	fmt.Printf(
		"%s: %d-byte blocks, %d inodes, %d data blocks starting at block %d\n",
		path,
		params.BlockSize,
		params.InodeCapacity,
		params.DataBlockCapacity,
		g.DataStart,
	)
	return nil
}
