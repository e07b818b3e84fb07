package volume

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
)

// Params describes a volume to format.
type Params struct {
	BlockSize         uint64
	InodeCapacity     uint64
	DataBlockCapacity uint64
}

// DefaultParams matches the stock mkfs tool.
func DefaultParams() Params {
	return Params{
		BlockSize:         layout.DefaultBlockSize,
		InodeCapacity:     layout.DefaultInodeCapacity,
		DataBlockCapacity: layout.DefaultDataBlockCapacity,
	}
}

func (p Params) superblock() layout.Superblock {
	return layout.Superblock{
		Version:           layout.Version,
		Magic:             layout.Magic,
		BlockSize:         p.BlockSize,
		InodeCapacity:     p.InodeCapacity,
		InodeCount:        1,
		DataBlockCapacity: p.DataBlockCapacity,
		DataBlockCount:    1,
	}
}

// Geometry returns the layout the parameters produce.
func (p Params) Geometry() (layout.Geometry, error) {
	return layout.NewGeometry(p.superblock())
}

type sized interface {
	Blocks() uint64
}

// Format writes an empty volume: the superblock, both bitmaps with slot 0
// claimed, a zeroed inode table holding the root directory at inode 0,
// and the root's zeroed data block. The superblock is written last.
func Format(dev blockdev.Device, params Params) error {
	if dev.BlockSize() != params.BlockSize {
		return fmt.Errorf(
			"formatting %d-byte blocks on a %d-byte device: %w",
			params.BlockSize,
			dev.BlockSize(),
			fs.ErrBlockSizeMismatch,
		)
	}
	sb := params.superblock()
	g, err := layout.NewGeometry(sb)
	if err != nil {
		return err
	}
	if d, ok := dev.(sized); ok && d.Blocks() < g.TotalBlocks() {
		return fmt.Errorf(
			"device holds %d blocks, volume needs %d: %w",
			d.Blocks(),
			g.TotalBlocks(),
			fs.ErrNoSpace,
		)
	}

	buf := make([]byte, params.BlockSize)
	write := func(block uint64, what string) error {
		if err := dev.WriteBlock(block, buf); err != nil {
			return fmt.Errorf("formatting %s: %w", what, err)
		}
		return nil
	}

	buf[0] = 1
	if err := write(layout.InodeBitmapBlock, "inode bitmap"); err != nil {
		return err
	}
	if err := write(layout.DataBitmapBlock, "data bitmap"); err != nil {
		return err
	}

	clear(buf)
	root := layout.NewInode(fs.RootIno, g.DataBlock(0), uint32(fs.DefaultDirMode), layout.Directory{ChildCount: 1})
	if err := root.Encode(buf); err != nil {
		return err
	}
	if err := write(layout.InodeTableStart, "root inode"); err != nil {
		return err
	}
	clear(buf)
	for block := layout.InodeTableStart + 1; block < g.DataStart; block++ {
		if err := write(block, "inode table"); err != nil {
			return err
		}
	}
	if err := write(root.DataBlock, "root directory"); err != nil {
		return err
	}

	sb.Encode(buf)
	if err := write(layout.SuperblockBlock, "superblock"); err != nil {
		return err
	}
	if err := dev.Flush(); err != nil {
		return fmt.Errorf("flushing formatted volume: %w", err)
	}

	log.WithFields(log.Fields{
		"blockSize":  params.BlockSize,
		"inodes":     params.InodeCapacity,
		"dataBlocks": params.DataBlockCapacity,
		"dataStart":  g.DataStart,
	}).Info("Formatted volume")
	return nil
}
