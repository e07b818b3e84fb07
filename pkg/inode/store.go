// Package inode reads and writes inode records in the inode table.
package inode

import (
	"fmt"
	"sync"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
)

// Store reads and writes inode records. Writes to a shared table block
// are serialized.
type Store struct {
	dev      blockdev.Device
	geometry layout.Geometry
	mu       sync.Mutex
}

func NewStore(dev blockdev.Device, geometry layout.Geometry) *Store {
	return &Store{dev: dev, geometry: geometry}
}

// Locate returns the block and byte offset holding inode n.
func (store *Store) Locate(n uint64) (block, offset uint64) {
	return store.geometry.Locate(n)
}

func (store *Store) check(n uint64) error {
	if n >= store.geometry.InodeCapacity {
		return fmt.Errorf(
			"inode `%d` past table capacity `%d`: %w",
			n,
			store.geometry.InodeCapacity,
			fs.ErrInvalidInode,
		)
	}
	return nil
}

// Get loads inode n.
func (store *Store) Get(n uint64) (layout.Inode, error) {
	if err := store.check(n); err != nil {
		return layout.Inode{}, err
	}
	block, offset := store.Locate(n)
	buf := make([]byte, store.dev.BlockSize())
	if err := store.dev.ReadBlock(block, buf); err != nil {
		return layout.Inode{}, fmt.Errorf("reading inode `%d` from block `%d`: %w", n, block, err)
	}
	inode, err := layout.DecodeInode(buf[offset : offset+layout.InodeSize])
	if err != nil {
		return layout.Inode{}, err
	}
	// Put addresses the slot by the stored number, so a mismatch would
	// write the record back over another inode.
	if inode.Ino != n {
		return layout.Inode{}, fmt.Errorf(
			"slot `%d` holds inode number `%d`: %w",
			n,
			inode.Ino,
			fs.ErrInvalidInode,
		)
	}
	return inode, nil
}

// Put writes an inode back to its slot. The containing block is read
// first so neighbouring records are preserved, and the device is flushed
// before Put returns.
func (store *Store) Put(inode *layout.Inode) error {
	if err := store.check(inode.Ino); err != nil {
		return err
	}
	block, offset := store.Locate(inode.Ino)
	buf := make([]byte, store.dev.BlockSize())
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.dev.ReadBlock(block, buf); err != nil {
		return fmt.Errorf("reading inode `%d` from block `%d`: %w", inode.Ino, block, err)
	}
	if err := inode.Encode(buf[offset : offset+layout.InodeSize]); err != nil {
		return err
	}
	if err := store.dev.WriteBlock(block, buf); err != nil {
		return fmt.Errorf(
			"writing inode `%d` to block `%d` at offset `%d`: %w",
			inode.Ino,
			block,
			offset,
			err,
		)
	}
	if err := store.dev.Flush(); err != nil {
		return fmt.Errorf("flushing inode `%d`: %w", inode.Ino, err)
	}
	return nil
}
