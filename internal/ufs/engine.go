package ufs

import (
	"github.com/isostack/distributed-file-system/internal/block"
)

// FileSystem is the engine's public surface: lookup, stat, read, write,
// create, unlink, composed over a block.Device. It is synchronous and
// single-threaded (spec.md §5) — callers requiring concurrent access
// must serialize at a higher level, which is exactly what
// internal/gateway does around every request it dispatches.
type FileSystem struct {
	dev block.Device
}

// New wraps an already-formatted block.Device as a FileSystem. Use
// internal/ufs's Format to initialize a fresh device first.
func New(dev block.Device) *FileSystem {
	return &FileSystem{dev: dev}
}

// Device returns the underlying block device, for callers that need raw
// block access outside the six engine operations.
func (fs *FileSystem) Device() block.Device {
	return fs.dev
}

func ceilDiv(a, b int32) int32 {
	return (a + b - 1) / b
}

func checkInodeRange(sb SuperBlock, inum int32) bool {
	return inum >= 0 && inum < sb.NumInodes
}

// SuperBlock returns the image's decoded superblock, for callers like
// the reporting utilities that need raw layout fields the six engine
// operations don't expose.
func (fs *FileSystem) SuperBlock() (SuperBlock, error) {
	return ReadSuperBlock(fs.dev)
}

// InodeBitmap returns a copy of the whole inode bitmap region.
func (fs *FileSystem) InodeBitmap() (Bitmap, error) {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return nil, err
	}
	return readBitmapRegion(fs.dev, sb.InodeBitmapAddr, sb.InodeBitmapLen)
}

// DataBitmap returns a copy of the whole data bitmap region.
func (fs *FileSystem) DataBitmap() (Bitmap, error) {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return nil, err
	}
	return readBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen)
}

// Stat returns a copy of inode inum's record. It validates the inode
// number against the superblock but does not consult the bitmap — a
// caller asking about a freed inode gets stale data (spec.md §4.3); all
// callers either hold a live reference already or check the bitmap
// themselves first.
func (fs *FileSystem) Stat(inum int32) (Inode, error) {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return Inode{}, err
	}
	if !checkInodeRange(sb, inum) {
		return Inode{}, Wrap(ErrInvalidInode, "inum %d out of range [0,%d)", inum, sb.NumInodes)
	}
	return readInodeSingle(fs.dev, sb, inum)
}
