package volume

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/alloc"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/layout"
)

// createEntry adds a child to parent stamped with the current location.
// Name, duplicate and capacity checks run before any slot is claimed, and
// the inode and data block are claimed together, so a rejected create
// changes nothing. A device failure after the claim leaks the slots.
func (v *Volume) createEntry(parent uint64, name string, perm uint32, content layout.Content) (layout.Inode, error) {
	loc := v.location.Current()
	if err := layout.ValidateName(name); err != nil {
		return layout.Inode{}, err
	}
	if err := layout.ValidateName(loc); err != nil {
		return layout.Inode{}, fmt.Errorf("current location: %w", err)
	}

	mu := v.lockInode(parent)
	mu.Lock()
	defer mu.Unlock()

	dir, err := v.inodes.Get(parent)
	if err != nil {
		return layout.Inode{}, err
	}
	d, ok := dir.Content.(layout.Directory)
	if !ok {
		return layout.Inode{}, fmt.Errorf("inode `%d`: %w", parent, fs.ErrNotDir)
	}
	if _, err := v.dirs.Lookup(&dir, name); err == nil {
		return layout.Inode{}, fs.ErrExist
	} else if !errors.Is(err, fs.ErrNotExist) {
		return layout.Inode{}, err
	}
	if d.ChildCount >= v.dirs.Capacity() {
		return layout.Inode{}, fmt.Errorf("directory `%d` is full: %w", parent, fs.ErrNoSpace)
	}

	slots, err := alloc.Claim(&v.allocMu, v.inodeBitmap, v.dataBitmap)
	if err != nil {
		return layout.Inode{}, err
	}
	child := layout.NewInode(slots[0], v.geometry.DataBlock(slots[1]), perm, content)
	if err := child.Location.Set(loc); err != nil {
		return layout.Inode{}, err
	}

	if err := v.finishCreate(&dir, name, &child); err != nil {
		log.WithFields(log.Fields{
			"parent": parent,
			"name":   name,
			"inode":  child.Ino,
			"block":  child.DataBlock,
		}).WithError(err).Warn("Create failed after claiming slots; slots leaked")
		return layout.Inode{}, err
	}

	log.WithFields(log.Fields{
		"parent":   parent,
		"name":     name,
		"inode":    child.Ino,
		"location": loc,
	}).Debug("Created entry")
	return child, nil
}

func (v *Volume) finishCreate(dir *layout.Inode, name string, child *layout.Inode) error {
	zero := make([]byte, v.geometry.BlockSize)
	if err := v.dev.WriteBlock(child.DataBlock, zero); err != nil {
		return fmt.Errorf("clearing data block `%d`: %w", child.DataBlock, err)
	}
	if err := v.inodes.Put(child); err != nil {
		return err
	}
	return v.dirs.Append(dir, name, child.Ino)
}
