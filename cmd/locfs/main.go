package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/config"
	"github.com/example/locfs/pkg/fuse"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/server"
	"github.com/example/locfs/pkg/volume"
)

func main() {
	app := cli.App{
		Name:  "locfs",
		Usage: "location-tagged filesystem",
		Commands: []*cli.Command{{
			Name:  "mount",
			Usage: "mount a locfs image and serve the admin API",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "image", Usage: "path to the formatted image"},
				&cli.StringFlag{Name: "mountpoint", Usage: "directory to mount on"},
				&cli.StringFlag{Name: "admin", Usage: "admin gRPC listen address"},
				&cli.StringFlag{Name: "location", Usage: "initial location tag"},
				&cli.StringFlag{Name: "log-level", Usage: "logrus level"},
				&cli.BoolFlag{Name: "fuse-debug", Usage: "log every FUSE message"},
				&cli.BoolFlag{Name: "allow-other", Usage: "let other users access the mount"},
			},
			Action: func(ctx *cli.Context) error {
				c, err := config.Load()
				if err != nil {
					return err
				}
				applyFlags(ctx, c)
				if err := c.Validate(); err != nil {
					return err
				}
				if c.MountPoint == "" {
					return fmt.Errorf("missing required configuration: mountPoint / LOCFS_MOUNTPOINT")
				}
				c.ApplyLogLevel()
				return run(ctx.Context, c)
			},
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func applyFlags(ctx *cli.Context, c *config.Config) {
	if ctx.IsSet("image") {
		c.Image = ctx.String("image")
	}
	if ctx.IsSet("mountpoint") {
		c.MountPoint = ctx.String("mountpoint")
	}
	if ctx.IsSet("admin") {
		c.AdminAddr = ctx.String("admin")
	}
	if ctx.IsSet("location") {
		c.DefaultLocation = ctx.String("location")
	}
	if ctx.IsSet("log-level") {
		c.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("fuse-debug") {
		c.FuseDebug = ctx.Bool("fuse-debug")
	}
	if ctx.IsSet("allow-other") {
		c.AllowOther = ctx.Bool("allow-other")
	}
}

func run(ctx context.Context, c *config.Config) error {
	dev, err := blockdev.OpenFile(c.Image, c.BlockSize)
	if err != nil {
		return err
	}
	loc, err := location.NewContext(c.DefaultLocation)
	if err != nil {
		dev.Close()
		return fmt.Errorf("initial location: %w", err)
	}
	vol, err := volume.Mount(dev, loc)
	if err != nil {
		dev.Close()
		return err
	}
	defer func() {
		if err := vol.Close(); err != nil {
			log.WithError(err).Error("Failed to close volume")
		}
	}()

	admin, err := server.NewLocationServer(c.ServerConfig(), vol, loc)
	if err != nil {
		return err
	}
	adminErr := make(chan error, 1)
	go func() {
		adminErr <- admin.Start()
	}()
	defer admin.Stop()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filesys := fuse.NewLocFS(vol)
	changes := make(chan string, 1)
	loc.Watch(changes)
	go filesys.Follow(ctx, changes)

	mounted := make(chan error, 1)
	go func() {
		mounted <- fuse.Mount(ctx, filesys, fuse.MountOptions{
			MountPoint: c.MountPoint,
			AllowOther: c.AllowOther,
			Debug:      c.FuseDebug,
		})
	}()

	select {
	case err := <-adminErr:
		stop()
		<-mounted
		return fmt.Errorf("admin server: %w", err)
	case err := <-mounted:
		return err
	}
}
