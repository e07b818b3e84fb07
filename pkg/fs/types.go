package fs

// FileType is the kind of object an inode holds. locfs has only regular
// files and directories.
type FileType uint32

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeRegular:
		return "regular"
	case FileTypeDirectory:
		return "directory"
	}
	return "unknown"
}

// FileMode holds permission bits only; the type lives in FileType.
type FileMode uint32

const (
	ModeMask FileMode = 0777

	// Used when a create or mkdir request carries no permission bits.
	DefaultFileMode FileMode = 0664
	DefaultDirMode  FileMode = 0775
)

// RootIno is the inode number of the root directory.
const RootIno uint64 = 0

// FileInfo describes one inode.
type FileInfo struct {
	Ino  uint64
	Type FileType
	Mode FileMode

	// Size is the byte length of a regular file, or the number of
	// occupied records of a directory.
	Size int64

	Nlink     uint32
	BlockSize uint32
	Blocks    uint64

	// Location is the tag stamped on the inode when it was created.
	Location string
}

// FileAttr carries the attributes of a file being created. A zero Mode
// selects the default for the file type.
type FileAttr struct {
	Mode FileMode
}

// DirEntry is one visible child of a directory.
type DirEntry struct {
	Name string
	Ino  uint64
	Type FileType
}

// FSStat reports volume capacity. Blocks count the data-block table and
// files count the inode table.
type FSStat struct {
	BlockSize     uint32
	TotalBlocks   uint64
	FreeBlocks    uint64
	TotalFiles    uint64
	FreeFiles     uint64
	NameMaxLength uint32
}
