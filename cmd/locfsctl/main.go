package main

import (
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/example/locfs/pkg/client"
	"github.com/example/locfs/pkg/fs"
)

func main() {
	app := cli.App{
		Name:        "locfsctl",
		Description: "inspect and control locfs volumes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "admin server address",
				Value:   client.DefaultConfig().ServerAddress,
				EnvVars: []string{"LOCFS_ADMIN_SERVER"},
			},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{{
			Name:        "location",
			Description: "commands for the current location of a mounted volume",
			Subcommands: []*cli.Command{{
				Name:        "get",
				Description: "print the current location",
				Action: withClient(func(c *client.Client, ctx *cli.Context) error {
					loc, err := c.GetLocation(ctx.Context)
					if err != nil {
						return err
					}
					fmt.Println(loc)
					return nil
				}),
			}, {
				Name:        "set",
				ArgsUsage:   "LOCATION",
				Description: "change the current location",
				Action: withClient(func(c *client.Client, ctx *cli.Context) error {
					if ctx.NArg() != 1 {
						return cli.Exit("usage: locfsctl location set LOCATION", 2)
					}
					return c.SetLocation(ctx.Context, ctx.Args().First())
				}),
			}},
		}, {
			Name:        "statfs",
			Description: "print volume usage",
			Action: withClient(func(c *client.Client, ctx *cli.Context) error {
				stat, err := c.StatFS(ctx.Context)
				if err != nil {
					return err
				}
				printStat(stat)
				return nil
			}),
		}, {
			Name:        "ls",
			ArgsUsage:   "[INODE]",
			Description: "list a directory as seen from the current location",
			Action: withClient(func(c *client.Client, ctx *cli.Context) error {
				dir, err := inodeArg(ctx, 0)
				if err != nil {
					return err
				}
				entries, err := c.ReadDir(ctx.Context, dir)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Printf("%6d  %-9s  %s\n", e.Ino, e.Type, e.Name)
				}
				return nil
			}),
		}, imageCommand()},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withClient(f func(*client.Client, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		config := client.DefaultConfig()
		config.ServerAddress = ctx.String("server")
		c, err := client.NewClient(config)
		if err != nil {
			return err
		}
		defer c.Close()
		return f(c, ctx)
	}
}

func inodeArg(ctx *cli.Context, i int) (uint64, error) {
	if ctx.NArg() <= i {
		return fs.RootIno, nil
	}
	ino, err := strconv.ParseUint(ctx.Args().Get(i), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing inode `%s`: %w", ctx.Args().Get(i), err)
	}
	return ino, nil
}

func printStat(stat fs.FSStat) {
	fmt.Printf("block size:  %d\n", stat.BlockSize)
	fmt.Printf("data blocks: %d used / %d total\n", stat.TotalBlocks-stat.FreeBlocks, stat.TotalBlocks)
	fmt.Printf("inodes:      %d used / %d total\n", stat.TotalFiles-stat.FreeFiles, stat.TotalFiles)
	fmt.Printf("name max:    %d\n", stat.NameMaxLength)
}
