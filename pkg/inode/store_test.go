package inode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
)

func newStore(t *testing.T, dev blockdev.Device) *Store {
	t.Helper()
	g, err := layout.NewGeometry(layout.Superblock{
		BlockSize:         dev.BlockSize(),
		InodeCapacity:     40,
		DataBlockCapacity: 8,
	})
	if err != nil {
		t.Fatalf("NewGeometry: unexpected error: %v", err)
	}
	return NewStore(dev, g)
}

func TestPutGet(t *testing.T) {
	dev := blockdev.NewMemDevice(4096, 16)
	store := newStore(t, dev)

	want := layout.NewInode(15, 9, 0644, layout.RegularFile{Size: 10})
	if err := want.Location.Set("Home"); err != nil {
		t.Fatalf("Set: unexpected error: %v", err)
	}
	if err := store.Put(&want); err != nil {
		t.Fatalf("Put: unexpected error: %v", err)
	}

	found, err := store.Get(15)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if found != want {
		t.Fatalf("wanted `%+v`; found `%+v`", want, found)
	}
	if block, offset := store.Locate(15); block != 4 || offset != 288 {
		t.Fatalf("wanted inode 15 at (4, 288); found (%d, %d)", block, offset)
	}
}

func TestPutPreservesNeighbours(t *testing.T) {
	dev := blockdev.NewMemDevice(4096, 16)
	store := newStore(t, dev)

	first := layout.NewInode(0, 8, 0775, layout.Directory{ChildCount: 1})
	second := layout.NewInode(1, 9, 0644, layout.RegularFile{Size: 3})
	for _, inode := range []*layout.Inode{&first, &second} {
		if err := store.Put(inode); err != nil {
			t.Fatalf("Put: unexpected error: %v", err)
		}
	}
	found, err := store.Get(0)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if found != first {
		t.Fatalf("wanted inode 0 to survive a write of inode 1")
	}
}

func TestGetPutByteIdentical(t *testing.T) {
	dev := blockdev.NewMemDevice(4096, 16)
	store := newStore(t, dev)

	raw := make([]byte, 4096)
	for i := range raw {
		raw[i] = byte(i % 251)
	}
	// inode 2 is a regular file with junk in every other byte
	raw[2*layout.InodeSize+0] = 0xa4
	raw[2*layout.InodeSize+1] = 0x81
	raw[2*layout.InodeSize+2] = 0
	raw[2*layout.InodeSize+3] = 0
	binary.LittleEndian.PutUint64(raw[2*layout.InodeSize+8:], 2)
	if err := dev.WriteBlock(3, raw); err != nil {
		t.Fatalf("WriteBlock: unexpected error: %v", err)
	}

	inode, err := store.Get(2)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if err := store.Put(&inode); err != nil {
		t.Fatalf("Put: unexpected error: %v", err)
	}
	found := make([]byte, 4096)
	if err := dev.ReadBlock(3, found); err != nil {
		t.Fatalf("ReadBlock: unexpected error: %v", err)
	}
	if !bytes.Equal(found, raw) {
		t.Fatalf("wanted Put(Get(2)) to leave the block byte-identical")
	}
}

func TestGetRejectsMismatchedNumber(t *testing.T) {
	dev := blockdev.NewMemDevice(4096, 16)
	store := newStore(t, dev)

	victim := layout.NewInode(5, 12, 0644, layout.RegularFile{Size: 7})
	if err := store.Put(&victim); err != nil {
		t.Fatalf("Put: unexpected error: %v", err)
	}
	// slot 2 claims to be inode 5
	stray := layout.NewInode(5, 80, 0644, layout.RegularFile{Size: 1})
	raw := make([]byte, 4096)
	if err := dev.ReadBlock(3, raw); err != nil {
		t.Fatalf("ReadBlock: unexpected error: %v", err)
	}
	if err := stray.Encode(raw[2*layout.InodeSize : 3*layout.InodeSize]); err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if err := dev.WriteBlock(3, raw); err != nil {
		t.Fatalf("WriteBlock: unexpected error: %v", err)
	}

	if _, err := store.Get(2); !errors.Is(err, fs.ErrInvalidInode) {
		t.Fatalf("wanted ErrInvalidInode for slot 2; found %v", err)
	}
	found, err := store.Get(5)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if found != victim {
		t.Fatalf("wanted inode 5 untouched `%+v`; found `%+v`", victim, found)
	}
}

func TestOutOfRange(t *testing.T) {
	store := newStore(t, blockdev.NewMemDevice(4096, 16))
	if _, err := store.Get(40); !errors.Is(err, fs.ErrInvalidInode) {
		t.Fatalf("wanted ErrInvalidInode; found %v", err)
	}
	inode := layout.NewInode(99, 0, 0644, layout.RegularFile{})
	if err := store.Put(&inode); !errors.Is(err, fs.ErrInvalidInode) {
		t.Fatalf("wanted ErrInvalidInode; found %v", err)
	}
}

func TestDeviceErrorPropagates(t *testing.T) {
	dev := blockdev.NewFaultyDevice(blockdev.NewMemDevice(4096, 16))
	store := newStore(t, dev)
	dev.FailReads(3)
	_, err := store.Get(1)
	var devErr *fs.DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("wanted *fs.DeviceError; found %v", err)
	}
}
