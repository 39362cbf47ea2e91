package ufs

// Unlink removes name from parentInum's directory. It is idempotent: if
// name is absent it returns success without touching disk (spec.md
// §4.8).
func (fs *FileSystem) Unlink(parentInum int32, name string) error {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return err
	}
	if !checkInodeRange(sb, parentInum) {
		return Wrap(ErrInvalidInode, "parent inum %d out of range", parentInum)
	}
	if name == "." || name == ".." {
		return Wrap(ErrUnlinkNotAllowed, "cannot unlink %q", name)
	}
	if len(name) >= DirEntNameSize {
		return Wrap(ErrInvalidName, "name %q too long (max %d bytes)", name, MaxNameLen)
	}

	inodes, err := readInodeRegion(fs.dev, sb)
	if err != nil {
		return err
	}
	parent := inodes[parentInum]
	if parent.Type != InodeDirectory {
		return Wrap(ErrInvalidInode, "inum %d is not a directory", parentInum)
	}

	parentBlocks, err := loadDirBlocks(fs.dev, parent)
	if err != nil {
		return err
	}
	flatEntries := flattenDirBlocks(parentBlocks)

	targetIdx := -1
	var targetInum int32
	for i, e := range flatEntries {
		if e.Live() && e.NameString() == name {
			targetIdx = i
			targetInum = e.Inum
			break
		}
	}
	if targetIdx < 0 {
		return nil
	}

	target := inodes[targetInum]
	if target.Type == InodeDirectory {
		targetBlocks, err := loadDirBlocks(fs.dev, target)
		if err != nil {
			return err
		}
		for _, e := range flattenDirBlocks(targetBlocks) {
			if !e.Live() {
				continue
			}
			if e.NameString() != "." && e.NameString() != ".." {
				return Wrap(ErrDirNotEmpty, "directory %d is not empty", targetInum)
			}
		}
	}

	bmIn, err := readBitmapRegion(fs.dev, sb.InodeBitmapAddr, sb.InodeBitmapLen)
	if err != nil {
		return err
	}
	bmBl, err := readBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen)
	if err != nil {
		return err
	}

	// Free every data block the target references.
	targetNumBlocks := ceilDiv(target.Size, BlockSize)
	for i := int32(0); i < targetNumBlocks; i++ {
		bmBl.Clear(sb.DataBit(target.Direct[i]))
	}
	bmIn.Clear(targetInum)
	inodes[targetInum] = Inode{Type: InodeNone, Direct: [DirectPtrs]int32{}}
	for i := range inodes[targetInum].Direct {
		inodes[targetInum].Direct[i] = NilPtr
	}

	// Remove the entry, preserving relative order, then re-pad with
	// vacant entries up to a block-size multiple.
	live := make([]DirEntry, 0, len(flatEntries))
	for i, e := range flatEntries {
		if i == targetIdx {
			continue
		}
		if e.Live() {
			live = append(live, e)
		}
	}
	parent.Size -= DirEntrySize

	oldNumBlocks := ceilDiv(parent.Size+DirEntrySize, BlockSize)
	newNumBlocks := ceilDiv(parent.Size, BlockSize)

	repacked := make([]DirEntry, newNumBlocks*EntriesPerBlock)
	for i := range repacked {
		repacked[i] = VacantDirEntry()
	}
	copy(repacked, live)

	if newNumBlocks < oldNumBlocks {
		bmBl.Clear(sb.DataBit(parent.Direct[newNumBlocks]))
		parent.Direct[newNumBlocks] = NilPtr
	}
	inodes[parentInum] = parent

	if err := fs.dev.BeginTransaction(); err != nil {
		return Wrap(ErrIO, "begin transaction: %v", err)
	}
	if err := writeInodeRegion(fs.dev, sb, inodes); err != nil {
		return err
	}
	if err := writeBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen, bmBl); err != nil {
		return err
	}
	if err := writeBitmapRegion(fs.dev, sb.InodeBitmapAddr, sb.InodeBitmapLen, bmIn); err != nil {
		return err
	}
	for i := int32(0); i < newNumBlocks; i++ {
		blockBuf := encodeDirBlock(repacked[i*EntriesPerBlock : (i+1)*EntriesPerBlock])
		if err := fs.dev.WriteBlock(int(parent.Direct[i]), blockBuf); err != nil {
			return Wrap(ErrIO, "writing directory block %d: %v", parent.Direct[i], err)
		}
	}
	if err := fs.dev.Commit(); err != nil {
		return Wrap(ErrIO, "commit: %v", err)
	}

	return nil
}
