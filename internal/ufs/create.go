package ufs

// Create allocates a fresh inode of type typ named name inside
// parentInum's directory and returns its inode number, or returns 0 if
// an entry with that exact (parent, type, name) already exists
// (idempotent success). Preconditions, allocation planning, and commit
// order follow spec.md §4.6 exactly.
func (fs *FileSystem) Create(parentInum int32, typ InodeType, name string) (int32, error) {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return 0, err
	}

	// 1. parent_inum in range.
	if !checkInodeRange(sb, parentInum) {
		return 0, Wrap(ErrInvalidInode, "parent inum %d out of range", parentInum)
	}

	// 2. name fits with room for the terminator.
	if len(name) >= DirEntNameSize {
		return 0, Wrap(ErrInvalidName, "name %q too long (max %d bytes)", name, MaxNameLen)
	}

	// 3. type is file or directory.
	if typ != InodeFile && typ != InodeDirectory {
		return 0, Wrap(ErrInvalidType, "unsupported inode type %d", typ)
	}

	inodes, err := readInodeRegion(fs.dev, sb)
	if err != nil {
		return 0, err
	}
	parent := inodes[parentInum]

	// 4. parent is a directory.
	if parent.Type != InodeDirectory {
		return 0, Wrap(ErrInvalidInode, "inum %d is not a directory", parentInum)
	}

	// 5. parent has room to grow.
	if parent.Size >= DirectPtrs*BlockSize {
		return 0, Wrap(ErrInsufficientSpace, "directory %d is full", parentInum)
	}

	parentBlocks, err := loadDirBlocks(fs.dev, parent)
	if err != nil {
		return 0, err
	}
	flatEntries := flattenDirBlocks(parentBlocks)

	// 6. an existing entry with this name resolves or conflicts.
	for _, e := range flatEntries {
		if e.Live() && e.NameString() == name {
			existing := inodes[e.Inum]
			if existing.Type == typ {
				return 0, nil
			}
			return 0, Wrap(ErrInvalidType, "%q exists with a different type", name)
		}
	}

	bmIn, err := readBitmapRegion(fs.dev, sb.InodeBitmapAddr, sb.InodeBitmapLen)
	if err != nil {
		return 0, err
	}
	bmBl, err := readBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen)
	if err != nil {
		return 0, err
	}

	// 7. a free inode bit exists, reserved now so later checks can't
	// collide with it.
	newInum := bmIn.FirstClear(sb.NumInodes)
	if newInum < 0 {
		return 0, Wrap(ErrInsufficientSpace, "no free inodes")
	}
	bmIn.Set(newInum)

	needsNewParentBlock := parent.Size%BlockSize == 0

	// 8. directory children need an initial data block.
	var childBlockBit int32 = -1
	if typ == InodeDirectory {
		childBlockBit = bmBl.FirstClear(sb.NumData)
		if childBlockBit < 0 {
			return 0, Wrap(ErrInsufficientSpace, "no free data blocks for new directory")
		}
		bmBl.Set(childBlockBit)
	}

	// 9. a new parent block, if needed, needs its own free bit.
	var parentBlockBit int32 = -1
	if needsNewParentBlock {
		parentBlockBit = bmBl.FirstClear(sb.NumData)
		if parentBlockBit < 0 {
			return 0, Wrap(ErrInsufficientSpace, "no free data blocks for directory growth")
		}
		bmBl.Set(parentBlockBit)
	}

	// Allocation plan fully computed; now build the records to write.
	var child Inode
	for i := range child.Direct {
		child.Direct[i] = NilPtr
	}
	var childBlockBuf []byte
	var childBlockNum int32 = -1
	if typ == InodeDirectory {
		childBlockNum = sb.DataBlockNum(childBlockBit)
		child.Type = InodeDirectory
		child.Size = 2 * DirEntrySize
		child.Direct[0] = childBlockNum
		childBlockBuf = encodeDirBlock([]DirEntry{
			NewDirEntry(".", newInum),
			NewDirEntry("..", parentInum),
		})
	} else {
		child.Type = InodeFile
		child.Size = 0
	}

	var entryBlockNum int32
	var entryBlockBuf []byte
	if needsNewParentBlock {
		entryBlockNum = sb.DataBlockNum(parentBlockBit)
		parent.Direct[parent.Size/BlockSize] = entryBlockNum
		entryBlockBuf = encodeDirBlock([]DirEntry{NewDirEntry(name, newInum)})
	} else {
		lastBlockIdx := parent.Size / BlockSize
		entryBlockNum = parent.Direct[lastBlockIdx]
		slot := int((parent.Size % BlockSize) / DirEntrySize)
		entries := parentBlocks[lastBlockIdx]
		entries[slot] = NewDirEntry(name, newInum)
		entryBlockBuf = encodeDirBlock(entries)
	}
	parent.Size += DirEntrySize

	inodes[parentInum] = parent
	inodes[newInum] = child

	if err := fs.dev.BeginTransaction(); err != nil {
		return 0, Wrap(ErrIO, "begin transaction: %v", err)
	}
	if err := writeBitmapRegion(fs.dev, sb.InodeBitmapAddr, sb.InodeBitmapLen, bmIn); err != nil {
		return 0, err
	}
	if err := writeBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen, bmBl); err != nil {
		return 0, err
	}
	if err := writeInodeRegion(fs.dev, sb, inodes); err != nil {
		return 0, err
	}
	if err := fs.dev.WriteBlock(int(entryBlockNum), entryBlockBuf); err != nil {
		return 0, Wrap(ErrIO, "writing directory entry block %d: %v", entryBlockNum, err)
	}
	if childBlockNum != -1 {
		if err := fs.dev.WriteBlock(int(childBlockNum), childBlockBuf); err != nil {
			return 0, Wrap(ErrIO, "writing new directory block %d: %v", childBlockNum, err)
		}
	}
	if err := fs.dev.Commit(); err != nil {
		return 0, Wrap(ErrIO, "commit: %v", err)
	}

	return newInum, nil
}

// loadDirBlocks reads every data block referenced by ino's direct
// pointers up to ceil(ino.Size/BlockSize), decoded into per-block entry
// slices indexed the same way as ino.Direct.
func loadDirBlocks(dev interface {
	BlockSize() int
	ReadBlock(n int, dst []byte) error
}, ino Inode) ([][]DirEntry, error) {
	numBlocks := ceilDiv(ino.Size, BlockSize)
	out := make([][]DirEntry, numBlocks)
	buf := make([]byte, dev.BlockSize())
	for i := int32(0); i < numBlocks; i++ {
		if err := dev.ReadBlock(int(ino.Direct[i]), buf); err != nil {
			return nil, Wrap(ErrIO, "reading directory block %d: %v", ino.Direct[i], err)
		}
		entries, err := decodeDirBlock(buf)
		if err != nil {
			return nil, err
		}
		out[i] = entries
	}
	return out, nil
}

func flattenDirBlocks(blocks [][]DirEntry) []DirEntry {
	var out []DirEntry
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
