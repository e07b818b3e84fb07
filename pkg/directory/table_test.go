package directory

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/inode"
	"github.com/example/locfs/pkg/layout"
)

type fixture struct {
	dev    *blockdev.MemDevice
	inodes *inode.Store
	table  *Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dev := blockdev.NewMemDevice(4096, 32)
	g, err := layout.NewGeometry(layout.Superblock{
		BlockSize:         4096,
		InodeCapacity:     64,
		DataBlockCapacity: 16,
	})
	if err != nil {
		t.Fatalf("NewGeometry: unexpected error: %v", err)
	}
	inodes := inode.NewStore(dev, g)
	return &fixture{dev: dev, inodes: inodes, table: NewTable(dev, inodes, g)}
}

func (f *fixture) put(t *testing.T, ino, block uint64, content layout.Content, location string) layout.Inode {
	t.Helper()
	n := layout.NewInode(ino, block, 0755, content)
	if location != "" {
		if err := n.Location.Set(location); err != nil {
			t.Fatalf("Set: unexpected error: %v", err)
		}
	}
	if err := f.inodes.Put(&n); err != nil {
		t.Fatalf("Put: unexpected error: %v", err)
	}
	return n
}

func TestAppendLookup(t *testing.T) {
	f := newFixture(t)
	dir := f.put(t, 1, 10, layout.Directory{}, "Home")
	f.put(t, 2, 11, layout.RegularFile{}, "Home")

	if err := f.table.Append(&dir, "a.txt", 2); err != nil {
		t.Fatalf("Append: unexpected error: %v", err)
	}
	if found := dir.Content.(layout.Directory).ChildCount; found != 1 {
		t.Fatalf("wanted child count 1; found %d", found)
	}

	stored, err := f.inodes.Get(1)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if stored.Content != (layout.Directory{ChildCount: 1}) {
		t.Fatalf("wanted persisted child count 1; found %+v", stored.Content)
	}

	ino, err := f.table.Lookup(&stored, "a.txt")
	if err != nil {
		t.Fatalf("Lookup: unexpected error: %v", err)
	}
	if ino != 2 {
		t.Fatalf("wanted inode `2`; found `%d`", ino)
	}
	if _, err := f.table.Lookup(&stored, "b.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("wanted ErrNotExist; found %v", err)
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	f := newFixture(t)
	dir := f.put(t, 1, 10, layout.Directory{}, "Home")
	for _, child := range []uint64{5, 6} {
		if err := f.table.Append(&dir, "dup", child); err != nil {
			t.Fatalf("Append: unexpected error: %v", err)
		}
	}
	ino, err := f.table.Lookup(&dir, "dup")
	if err != nil {
		t.Fatalf("Lookup: unexpected error: %v", err)
	}
	if ino != 5 {
		t.Fatalf("wanted first record's inode `5`; found `%d`", ino)
	}
}

func TestAppendAtCapacity(t *testing.T) {
	f := newFixture(t)
	dir := f.put(t, 1, 10, layout.Directory{}, "Home")
	for i := uint64(0); i < f.table.Capacity(); i++ {
		if err := f.table.Append(&dir, fmt.Sprintf("f%d", i), i+2); err != nil {
			t.Fatalf("Append #%d: unexpected error: %v", i, err)
		}
	}
	if err := f.table.Append(&dir, "overflow", 40); !errors.Is(err, fs.ErrNoSpace) {
		t.Fatalf("wanted ErrNoSpace; found %v", err)
	}
	if found := dir.Content.(layout.Directory).ChildCount; found != 15 {
		t.Fatalf("wanted child count to stay 15; found %d", found)
	}
}

func TestAppendRejectsBadNames(t *testing.T) {
	f := newFixture(t)
	dir := f.put(t, 1, 10, layout.Directory{}, "Home")
	for _, tc := range []struct {
		name    string
		wantErr error
	}{
		{strings.Repeat("n", layout.MaxNameLen+1), fs.ErrNameTooLong},
		{"", fs.ErrInvalidName},
	} {
		if err := f.table.Append(&dir, tc.name, 2); !errors.Is(err, tc.wantErr) {
			t.Fatalf("wanted %v; found %v", tc.wantErr, err)
		}
	}
	stored, err := f.inodes.Get(1)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if stored.Content != (layout.Directory{}) {
		t.Fatalf("wanted directory untouched; found %+v", stored.Content)
	}
}

func TestAppendNotDir(t *testing.T) {
	f := newFixture(t)
	file := f.put(t, 2, 11, layout.RegularFile{}, "Home")
	if err := f.table.Append(&file, "x", 3); !errors.Is(err, fs.ErrNotDir) {
		t.Fatalf("wanted ErrNotDir; found %v", err)
	}
}

func TestListFiltersByLocation(t *testing.T) {
	f := newFixture(t)
	dir := f.put(t, 1, 10, layout.Directory{}, "Home")
	f.put(t, 2, 11, layout.RegularFile{}, "Home")
	f.put(t, 3, 12, layout.RegularFile{}, "Work")
	if err := f.table.Append(&dir, "A", 2); err != nil {
		t.Fatalf("Append: unexpected error: %v", err)
	}
	if err := f.table.Append(&dir, "B", 3); err != nil {
		t.Fatalf("Append: unexpected error: %v", err)
	}

	for _, tc := range []struct {
		location string
		want     []string
	}{
		{"Home", []string{"A"}},
		{"Work", []string{"B"}},
		{"Other", nil},
	} {
		t.Run(tc.location, func(t *testing.T) {
			entries, err := f.table.List(&dir, tc.location)
			if err != nil {
				t.Fatalf("List: unexpected error: %v", err)
			}
			var found []string
			for _, e := range entries {
				found = append(found, e.Name)
			}
			if strings.Join(found, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("wanted %v; found %v", tc.want, found)
			}
		})
	}

	// hidden entries stay reachable by name
	ino, err := f.table.Lookup(&dir, "B")
	if err != nil || ino != 3 {
		t.Fatalf("wanted Lookup(B) = 3; found %d, %v", ino, err)
	}
}

func TestListSkipsSelfRecord(t *testing.T) {
	f := newFixture(t)
	root := f.put(t, 0, 10, layout.Directory{ChildCount: 1}, "")
	f.put(t, 2, 11, layout.RegularFile{}, "Home")
	if err := f.table.Append(&root, "f", 2); err != nil {
		t.Fatalf("Append: unexpected error: %v", err)
	}
	entries, err := f.table.List(&root, "Home")
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "f" || entries[0].Ino != 2 {
		t.Fatalf("wanted [f:2]; found %+v", entries)
	}
	if entries[0].Type != fs.FileTypeRegular {
		t.Fatalf("wanted regular file; found %s", entries[0].Type)
	}
}
