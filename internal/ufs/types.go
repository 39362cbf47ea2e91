// Package ufs implements the UFS file-system engine: the on-disk
// superblock/bitmap/inode layout and the transactional lookup, stat,
// read, write, create, and unlink operations built on top of a
// block.Device.
package ufs

const (
	// BlockSize is the fixed size of every block on a UFS image, in
	// bytes. Chosen so that both InodeSize and DirEntrySize divide it
	// evenly (spec.md §3's "one power-of-two fraction of block size").
	BlockSize = 4096

	// DirectPtrs is the number of direct data-block pointers held
	// inline in every inode. UFS has no indirect blocks.
	DirectPtrs = 30

	// DirEntNameSize is the fixed width, in bytes, of a directory
	// entry's name field, including its zero terminator.
	DirEntNameSize = 28

	// MaxNameLen is the longest name create/unlink will accept
	// (DirEntNameSize reserves one byte for the terminator).
	MaxNameLen = DirEntNameSize - 1

	// MaxFileSize is the largest file the engine can represent:
	// DIRECT_PTRS direct pointers, one block each.
	MaxFileSize = DirectPtrs * BlockSize

	// NilPtr is the sentinel stored in an inode's direct[] array or a
	// directory entry's inum field to mean "absent".
	NilPtr int32 = -1

	// RootInum is the inode number of the root directory. It is always
	// in use and its ".." entry points back to itself.
	RootInum int32 = 0
)

// InodeType distinguishes a regular file from a directory. The zero
// value is never written to a live inode; it only appears in never-used
// or just-freed inode slots.
type InodeType int32

const (
	InodeNone      InodeType = 0
	InodeFile      InodeType = 1
	InodeDirectory InodeType = 2
)

func (t InodeType) String() string {
	switch t {
	case InodeFile:
		return "regular-file"
	case InodeDirectory:
		return "directory"
	default:
		return "none"
	}
}

// Inode is the fixed-size on-disk inode record: type, size in bytes, and
// DirectPtrs direct data-block numbers. No indirect pointers, no
// timestamps, no permission bits — see SPEC_FULL.md Non-goals.
type Inode struct {
	Type   InodeType
	Size   int32
	Direct [DirectPtrs]int32
}

// InodeSize is sizeof(inode_t) on disk: two int32 fields plus the direct
// pointer array, all little-endian.
const InodeSize = 4 /* Type */ + 4 /* Size */ + DirectPtrs*4

// InodesPerBlock is the number of fixed-size inode records packed into
// one block.
const InodesPerBlock = BlockSize / InodeSize

// DirEntry is a (name, inode number) pair stored in a directory's data
// blocks. Name is zero-padded; Inum is -1 (NilPtr) for a vacant slot.
type DirEntry struct {
	Name [DirEntNameSize]byte
	Inum int32
}

// DirEntrySize is sizeof(dir_ent_t) on disk.
const DirEntrySize = DirEntNameSize + 4

// EntriesPerBlock is the number of directory entries packed into one
// data block.
const EntriesPerBlock = BlockSize / DirEntrySize

// NewDirEntry builds a DirEntry for name, zero-padding/truncating Name
// to DirEntNameSize bytes. Callers are expected to have already
// validated len(name) <= MaxNameLen.
func NewDirEntry(name string, inum int32) DirEntry {
	var e DirEntry
	copy(e.Name[:], name)
	e.Inum = inum
	return e
}

// VacantDirEntry is a directory entry slot with no live name.
func VacantDirEntry() DirEntry {
	return DirEntry{Inum: NilPtr}
}

// NameString returns the entry's name, trimmed at the first zero byte.
func (e DirEntry) NameString() string {
	i := 0
	for i < len(e.Name) && e.Name[i] != 0 {
		i++
	}
	return string(e.Name[:i])
}

// Live reports whether this slot holds a name, not a vacant marker.
func (e DirEntry) Live() bool {
	return e.Inum != NilPtr
}
