package main

import (
	"context"
	"errors"
	"testing"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/volume"
)

func TestResolve(t *testing.T) {
	params := volume.Params{BlockSize: 4096, InodeCapacity: 16, DataBlockCapacity: 16}
	g, err := params.Geometry()
	if err != nil {
		t.Fatalf("Geometry: unexpected error: %v", err)
	}
	dev := blockdev.NewMemDevice(params.BlockSize, g.TotalBlocks())
	if err := volume.Format(dev, params); err != nil {
		t.Fatalf("Format: unexpected error: %v", err)
	}
	v, err := volume.Mount(dev, location.Fixed("Work"))
	if err != nil {
		t.Fatalf("Mount: unexpected error: %v", err)
	}

	ctx := context.Background()
	dir, err := v.Mkdir(ctx, fs.RootIno, "docs", fs.FileAttr{})
	if err != nil {
		t.Fatalf("Mkdir: unexpected error: %v", err)
	}
	file, err := v.Create(ctx, dir.Ino, "notes.txt", fs.FileAttr{})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	for _, testCase := range []struct {
		path   string
		wanted uint64
	}{
		{"", fs.RootIno},
		{"/", fs.RootIno},
		{"docs", dir.Ino},
		{"/docs/./notes.txt", file.Ino},
	} {
		info, err := resolve(ctx, v, testCase.path)
		if err != nil {
			t.Fatalf("resolve(%q): unexpected error: %v", testCase.path, err)
		}
		if info.Ino != testCase.wanted {
			t.Fatalf("resolve(%q): wanted inode %d; found %d", testCase.path, testCase.wanted, info.Ino)
		}
	}

	if _, err := resolve(ctx, v, "docs/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("wanted ErrNotExist; found %v", err)
	}
}
