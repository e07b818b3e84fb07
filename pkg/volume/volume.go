// Package volume mounts a formatted locfs device and implements
// fs.FileSystem on top of it.
package volume

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/alloc"
	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/directory"
	"github.com/example/locfs/pkg/file"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/inode"
	"github.com/example/locfs/pkg/layout"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/superblock"
)

const inodeLockStripes = 64

// Volume is a mounted locfs device.
type Volume struct {
	dev      blockdev.Device
	sb       *superblock.Manager
	geometry layout.Geometry
	location location.Source

	inodeBitmap *alloc.Bitmap
	dataBitmap  *alloc.Bitmap
	inodes      *inode.Store
	dirs        *directory.Table
	data        *file.DataPath

	// allocMu guards both bitmaps and the superblock counts.
	allocMu sync.Mutex
	// inodeLocks serialize read-modify-write of an inode and its data
	// block, keyed by inode number. Taken before allocMu.
	inodeLocks [inodeLockStripes]sync.Mutex
}

var _ fs.FileSystem = (*Volume)(nil)

// Mount validates the superblock, loads both bitmaps and checks the root
// directory. Listing and creation read the location from src.
func Mount(dev blockdev.Device, src location.Source) (*Volume, error) {
	sb, err := superblock.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("mounting: %w", err)
	}
	v := &Volume{
		dev:      dev,
		sb:       sb,
		geometry: sb.Geometry(),
		location: src,
	}
	if v.inodeBitmap, err = alloc.Load(dev, sb, superblock.InodeSpace); err != nil {
		return nil, fmt.Errorf("mounting: %w", err)
	}
	if v.dataBitmap, err = alloc.Load(dev, sb, superblock.DataBlockSpace); err != nil {
		return nil, fmt.Errorf("mounting: %w", err)
	}
	v.inodes = inode.NewStore(dev, v.geometry)
	v.dirs = directory.NewTable(dev, v.inodes, v.geometry)
	v.data = file.NewDataPath(dev, v.inodes)

	changed := sb.Reconcile(superblock.InodeSpace, v.inodeBitmap.Count())
	if sb.Reconcile(superblock.DataBlockSpace, v.dataBitmap.Count()) {
		changed = true
	}
	if changed {
		if err := sb.Persist(); err != nil {
			return nil, fmt.Errorf("mounting: %w", err)
		}
	}

	root, err := v.inodes.Get(fs.RootIno)
	if err != nil {
		return nil, fmt.Errorf("mounting: loading root: %w", err)
	}
	if !root.IsDir() {
		return nil, fmt.Errorf("mounting: root inode is not a directory: %w", fs.ErrFormatMismatch)
	}

	log.WithFields(log.Fields{
		"blockSize":  v.geometry.BlockSize,
		"inodesUsed": sb.Used(superblock.InodeSpace),
		"blocksUsed": sb.Used(superblock.DataBlockSpace),
	}).Info("Mounted volume")
	return v, nil
}

func (v *Volume) lockInode(ino uint64) *sync.Mutex {
	return &v.inodeLocks[ino%inodeLockStripes]
}

// Geometry returns the layout of the mounted volume.
func (v *Volume) Geometry() layout.Geometry { return v.geometry }

// Superblock returns a copy of the in-memory superblock.
func (v *Volume) Superblock() layout.Superblock { return v.sb.Superblock() }

// Inode loads a raw inode record.
func (v *Volume) Inode(ino uint64) (layout.Inode, error) {
	return v.inodes.Get(ino)
}

// Close flushes and releases the device.
func (v *Volume) Close() error {
	if err := v.dev.Flush(); err != nil {
		return fmt.Errorf("closing volume: %w", err)
	}
	return v.dev.Close()
}
