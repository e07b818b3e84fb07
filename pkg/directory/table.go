// Package directory manages the fixed-size records stored in a
// directory's single data block.
package directory

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/inode"
	"github.com/example/locfs/pkg/layout"
)

// Entry is a listed child.
type Entry struct {
	Name string
	Ino  uint64
	Type fs.FileType
}

type Table struct {
	dev      blockdev.Device
	inodes   *inode.Store
	capacity uint64
}

func NewTable(dev blockdev.Device, inodes *inode.Store, geometry layout.Geometry) *Table {
	return &Table{dev: dev, inodes: inodes, capacity: geometry.DirCapacity}
}

// Capacity is the number of records a directory block holds.
func (t *Table) Capacity() uint64 { return t.capacity }

func childCount(dir *layout.Inode) (uint64, error) {
	d, ok := dir.Content.(layout.Directory)
	if !ok {
		return 0, fmt.Errorf("inode `%d`: %w", dir.Ino, fs.ErrNotDir)
	}
	return d.ChildCount, nil
}

// Append adds a record for child at index ChildCount, persists the block,
// then bumps and persists the directory's child count. Duplicate names are
// not detected here.
func (t *Table) Append(dir *layout.Inode, name string, child uint64) error {
	count, err := childCount(dir)
	if err != nil {
		return err
	}
	record, err := layout.NewDirRecord(name, child)
	if err != nil {
		return err
	}
	if count >= t.capacity {
		return fmt.Errorf(
			"directory `%d` holds %d of %d records: %w",
			dir.Ino,
			count,
			t.capacity,
			fs.ErrNoSpace,
		)
	}

	buf := make([]byte, t.dev.BlockSize())
	if err := t.dev.ReadBlock(dir.DataBlock, buf); err != nil {
		return fmt.Errorf("reading directory `%d`: %w", dir.Ino, err)
	}
	offset := count * layout.DirRecordSize
	record.Encode(buf[offset : offset+layout.DirRecordSize])
	if err := t.dev.WriteBlock(dir.DataBlock, buf); err != nil {
		return fmt.Errorf("writing directory `%d` record %d: %w", dir.Ino, count, err)
	}
	if err := t.dev.Flush(); err != nil {
		return fmt.Errorf("flushing directory `%d`: %w", dir.Ino, err)
	}

	dir.Content = layout.Directory{ChildCount: count + 1}
	if err := t.inodes.Put(dir); err != nil {
		return err
	}
	return nil
}

// Records returns every occupied record of dir, including the zeroed
// self record at index 0 of the root.
func (t *Table) Records(dir *layout.Inode) ([]layout.DirRecord, error) {
	count, err := childCount(dir)
	if err != nil {
		return nil, err
	}
	count = min(count, t.capacity)
	buf := make([]byte, t.dev.BlockSize())
	if err := t.dev.ReadBlock(dir.DataBlock, buf); err != nil {
		return nil, fmt.Errorf("reading directory `%d`: %w", dir.Ino, err)
	}
	records := make([]layout.DirRecord, 0, count)
	for i := uint64(0); i < count; i++ {
		offset := i * layout.DirRecordSize
		record, err := layout.DecodeDirRecord(buf[offset : offset+layout.DirRecordSize])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Lookup returns the inode number of the first record named name. Lookup
// ignores location tags.
func (t *Table) Lookup(dir *layout.Inode, name string) (uint64, error) {
	if err := layout.ValidateName(name); err != nil {
		return 0, err
	}
	records, err := t.Records(dir)
	if err != nil {
		return 0, err
	}
	for i := range records {
		if records[i].Name.Equal(name) {
			return records[i].Ino, nil
		}
	}
	return 0, fmt.Errorf("`%s` in directory `%d`: %w", name, dir.Ino, fs.ErrNotExist)
}

// List returns the children of dir whose location tag equals location, in
// insertion order.
func (t *Table) List(dir *layout.Inode, location string) ([]Entry, error) {
	records, err := t.Records(dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for i := range records {
		name := records[i].Name.String()
		if name == "" {
			continue
		}
		child, err := t.inodes.Get(records[i].Ino)
		if err != nil {
			return nil, fmt.Errorf("listing `%s` in directory `%d`: %w", name, dir.Ino, err)
		}
		if !child.Location.Equal(location) {
			log.WithFields(log.Fields{
				"dir":      dir.Ino,
				"name":     name,
				"location": child.Location.String(),
			}).Debug("Hiding entry from another location")
			continue
		}
		entries = append(entries, Entry{Name: name, Ino: child.Ino, Type: child.Type()})
	}
	return entries, nil
}
