package layout

import (
	"fmt"

	"github.com/example/locfs/pkg/fs"
)

// Content is the type-specific half of an inode: the child count of a
// directory or the byte size of a regular file.
type Content interface {
	word() uint64
	fileType() fs.FileType
}

// Directory is the content of a directory inode.
type Directory struct {
	ChildCount uint64
}

func (d Directory) word() uint64 { return d.ChildCount }
func (Directory) fileType() fs.FileType { return fs.FileTypeDirectory }

// RegularFile is the content of a regular file inode.
type RegularFile struct {
	Size uint64
}

func (f RegularFile) word() uint64 { return f.Size }
func (RegularFile) fileType() fs.FileType { return fs.FileTypeRegular }

// Inode is a decoded inode record.
type Inode struct {
	Mode      uint32
	Ino       uint64
	DataBlock uint64
	Location  BoundedString
	Content   Content

	pad0 [4]byte
	pad1 byte
}

// NewInode builds an inode whose mode type bits agree with content.
func NewInode(ino, dataBlock uint64, perm uint32, content Content) Inode {
	mode := ModeRegular
	if content.fileType() == fs.FileTypeDirectory {
		mode = ModeDir
	}
	return Inode{
		Mode:      mode | perm&^ModeTypeMask,
		Ino:       ino,
		DataBlock: dataBlock,
		Content:   content,
	}
}

// Type reports the file type of the inode.
func (inode *Inode) Type() fs.FileType {
	return inode.Content.fileType()
}

func (inode *Inode) IsDir() bool {
	_, ok := inode.Content.(Directory)
	return ok
}

// Perm returns the permission bits of the mode.
func (inode *Inode) Perm() uint32 {
	return inode.Mode & ^ModeTypeMask
}

// Encode writes the inode into the first InodeSize bytes of b. The mode
// type bits and the content variant must agree.
func (inode *Inode) Encode(b []byte) error {
	if inode.Content == nil {
		return fmt.Errorf("encoding inode %d: missing content: %w", inode.Ino, fs.ErrInvalidFileType)
	}
	if kind, err := typeOf(inode.Mode); err != nil || kind != inode.Content.fileType() {
		return fmt.Errorf(
			"encoding inode %d: mode %o disagrees with %s content: %w",
			inode.Ino,
			inode.Mode,
			inode.Content.fileType(),
			fs.ErrInvalidFileType,
		)
	}
	putU32(b, 0, inode.Mode)
	copy(b[4:8], inode.pad0[:])
	putU64(b, 8, inode.Ino)
	putU64(b, 16, inode.DataBlock)
	copy(b[24:24+StringField], inode.Location[:])
	b[279] = inode.pad1
	putU64(b, 280, inode.Content.word())
	return nil
}

// DecodeInode decodes an inode record. The record's type bits select the
// content variant.
func DecodeInode(b []byte) (Inode, error) {
	if err := need("inode", b, InodeSize); err != nil {
		return Inode{}, err
	}
	var inode Inode
	inode.Mode = getU32(b, 0)
	copy(inode.pad0[:], b[4:8])
	inode.Ino = getU64(b, 8)
	inode.DataBlock = getU64(b, 16)
	copy(inode.Location[:], b[24:24+StringField])
	inode.pad1 = b[279]

	word := getU64(b, 280)
	kind, err := typeOf(inode.Mode)
	if err != nil {
		return Inode{}, fmt.Errorf("decoding inode %d: %w", inode.Ino, err)
	}
	switch kind {
	case fs.FileTypeDirectory:
		inode.Content = Directory{ChildCount: word}
	default:
		inode.Content = RegularFile{Size: word}
	}
	return inode, nil
}

func typeOf(mode uint32) (fs.FileType, error) {
	switch mode & ModeTypeMask {
	case ModeDir:
		return fs.FileTypeDirectory, nil
	case ModeRegular:
		return fs.FileTypeRegular, nil
	default:
		return 0, fmt.Errorf("mode %o: %w", mode, fs.ErrInvalidFileType)
	}
}

// DirRecord is one directory entry.
type DirRecord struct {
	Name BoundedString
	Ino  uint64

	pad byte
}

func NewDirRecord(name string, ino uint64) (DirRecord, error) {
	n, err := NewBoundedString(name)
	if err != nil {
		return DirRecord{}, err
	}
	return DirRecord{Name: n, Ino: ino}, nil
}

// Encode writes the record into the first DirRecordSize bytes of b.
func (r *DirRecord) Encode(b []byte) {
	copy(b[:StringField], r.Name[:])
	b[StringField] = r.pad
	putU64(b, 256, r.Ino)
}

func DecodeDirRecord(b []byte) (DirRecord, error) {
	if err := need("directory record", b, DirRecordSize); err != nil {
		return DirRecord{}, err
	}
	var r DirRecord
	copy(r.Name[:], b[:StringField])
	r.pad = b[StringField]
	r.Ino = getU64(b, 256)
	return r, nil
}
