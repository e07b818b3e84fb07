package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/volume"
)

func imageCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.Uint64Flag{
			Name:  "block-size",
			Usage: "block size the image was formatted with",
			Value: layout.DefaultBlockSize,
		},
		&cli.StringFlag{
			Name:  "location",
			Usage: "location used to filter listings",
			Value: location.Default,
		},
	}
	return &cli.Command{
		Name:        "image",
		Description: "inspect an unmounted image file",
		Subcommands: []*cli.Command{{
			Name:        "stat",
			ArgsUsage:   "IMAGE",
			Description: "print the superblock and usage",
			Flags:       flags,
			Action: withVolume(func(v *volume.Volume, ctx *cli.Context) error {
				sb := v.Superblock()
				g := v.Geometry()
				fmt.Printf("version:     %d\n", sb.Version)
				fmt.Printf("magic:       %#x\n", sb.Magic)
				fmt.Printf("data start:  block %d\n", g.DataStart)
				stat, err := v.StatFS(ctx.Context)
				if err != nil {
					return err
				}
				printStat(stat)
				return nil
			}),
		}, {
			Name:        "ls",
			ArgsUsage:   "IMAGE [PATH]",
			Description: "list every record of a directory with its location",
			Flags:       flags,
			Action: withVolume(func(v *volume.Volume, ctx *cli.Context) error {
				info, err := resolve(ctx.Context, v, ctx.Args().Get(1))
				if err != nil {
					return err
				}
				entries, err := v.ListAll(ctx.Context, info.Ino)
				if err != nil {
					return err
				}
				current := ctx.String("location")
				for _, e := range entries {
					mark := " "
					if e.Location == current {
						mark = "*"
					}
					fmt.Printf("%s %6d  %-9s  %-12s  %s\n", mark, e.Ino, e.Type, e.Location, e.Name)
				}
				return nil
			}),
		}, {
			Name:        "cat",
			ArgsUsage:   "IMAGE PATH",
			Description: "print the contents of a file",
			Flags:       flags,
			Action: withVolume(func(v *volume.Volume, ctx *cli.Context) error {
				info, err := resolve(ctx.Context, v, ctx.Args().Get(1))
				if err != nil {
					return err
				}
				data, _, err := v.Read(ctx.Context, info.Ino, 0, int(info.Size))
				if err != nil {
					return err
				}
				_, err = ctx.App.Writer.Write(data)
				return err
			}),
		}, {
			Name:        "lookup",
			ArgsUsage:   "IMAGE PATH",
			Description: "print the attributes of a path",
			Flags:       flags,
			Action: withVolume(func(v *volume.Volume, ctx *cli.Context) error {
				info, err := resolve(ctx.Context, v, ctx.Args().Get(1))
				if err != nil {
					return err
				}
				fmt.Printf("inode:    %d\n", info.Ino)
				fmt.Printf("type:     %s\n", info.Type)
				fmt.Printf("mode:     %#o\n", info.Mode)
				fmt.Printf("size:     %d\n", info.Size)
				fmt.Printf("location: %q\n", info.Location)
				return nil
			}),
		}},
	}
}

func withVolume(f func(*volume.Volume, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.NArg() < 1 {
			return cli.Exit("missing IMAGE argument", 2)
		}
		dev, err := blockdev.OpenFile(ctx.Args().First(), ctx.Uint64("block-size"))
		if err != nil {
			return err
		}
		v, err := volume.Mount(dev, location.Fixed(ctx.String("location")))
		if err != nil {
			dev.Close()
			return err
		}
		defer v.Close()
		return f(v, ctx)
	}
}

// resolve walks a slash-separated path from the root. Lookup is not
// filtered, so any record can be reached by name.
func resolve(ctx context.Context, v *volume.Volume, path string) (fs.FileInfo, error) {
	info, err := v.GetAttr(ctx, fs.RootIno)
	if err != nil {
		return fs.FileInfo{}, err
	}
	for _, name := range strings.Split(path, "/") {
		if name == "" || name == "." {
			continue
		}
		if info, err = v.Lookup(ctx, info.Ino, name); err != nil {
			return fs.FileInfo{}, err
		}
	}
	return info, nil
}
