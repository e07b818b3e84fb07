package fuse

import (
	"context"
	"fmt"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	log "github.com/sirupsen/logrus"
)

// MountOptions contains options for mounting the filesystem
type MountOptions struct {
	MountPoint string
	ReadOnly   bool
	AllowOther bool
	Debug      bool
}

// Mount mounts filesys at the mount point and serves it until ctx is
// canceled or the kernel unmounts it.
func Mount(ctx context.Context, filesys *LocFS, options MountOptions) error {
	mountOpts := []fuse.MountOption{
		fuse.FSName("locfs"),
		fuse.Subtype("locfs"),
	}
	if options.ReadOnly {
		mountOpts = append(mountOpts, fuse.ReadOnly())
	}
	if options.AllowOther {
		mountOpts = append(mountOpts, fuse.AllowOther())
	}

	log.WithField("mountpoint", options.MountPoint).Info("Mounting FUSE filesystem")
	c, err := fuse.Mount(options.MountPoint, mountOpts...)
	if err != nil {
		return fmt.Errorf("failed to mount %s: %w", options.MountPoint, err)
	}
	defer c.Close()

	config := &fusefs.Config{}
	if options.Debug {
		config.Debug = func(msg interface{}) {
			log.WithField("fuse", fmt.Sprint(msg)).Debug("FUSE message")
		}
	}
	server := fusefs.New(c, config)
	filesys.setServer(server)

	served := make(chan error, 1)
	go func() {
		served <- server.Serve(filesys)
	}()

	select {
	case err := <-served:
		if err != nil {
			return fmt.Errorf("serving %s: %w", options.MountPoint, err)
		}
		log.WithField("mountpoint", options.MountPoint).Info("Filesystem unmounted")
		return nil
	case <-ctx.Done():
	}

	log.WithField("mountpoint", options.MountPoint).Info("Unmounting filesystem")
	if err := Unmount(options.MountPoint); err != nil {
		log.WithError(err).Warn("Failed to unmount cleanly")
		return err
	}
	return <-served
}

// Unmount unmounts the filesystem
func Unmount(mountPoint string) error {
	return fuse.Unmount(mountPoint)
}
