package ufs

// Write overwrites inum's entire contents with the first size bytes of
// buf, growing or shrinking its direct block allocation as needed, and
// returns size (spec.md §4.7). File-only; directories return
// ErrInvalidType.
func (fs *FileSystem) Write(inum int32, buf []byte, size int32) (int32, error) {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return 0, err
	}
	if !checkInodeRange(sb, inum) {
		return 0, Wrap(ErrInvalidInode, "inum %d out of range", inum)
	}
	if size < 0 || size > MaxFileSize {
		return 0, Wrap(ErrInvalidSize, "size %d out of range [0,%d]", size, MaxFileSize)
	}

	inodes, err := readInodeRegion(fs.dev, sb)
	if err != nil {
		return 0, err
	}
	ino := inodes[inum]
	if ino.Type != InodeFile {
		return 0, Wrap(ErrInvalidType, "inum %d is not a regular file", inum)
	}
	if len(buf) < int(size) {
		return 0, Wrap(ErrInvalidSize, "buffer length %d smaller than %d bytes to write", len(buf), size)
	}

	c := ceilDiv(ino.Size, BlockSize)
	r := ceilDiv(size, BlockSize)
	if r > DirectPtrs {
		return 0, Wrap(ErrInsufficientSpace, "%d blocks exceeds DIRECT_PTRS (%d)", r, DirectPtrs)
	}

	bmBl, err := readBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen)
	if err != nil {
		return 0, err
	}

	// Allocate any new blocks first, fully in memory; on failure nothing
	// has been written and nothing already-allocated needs unwinding.
	newDirect := ino.Direct
	for i := c; i < r; i++ {
		bit := bmBl.FirstClear(sb.NumData)
		if bit < 0 {
			return 0, Wrap(ErrInsufficientSpace, "no free data blocks")
		}
		bmBl.Set(bit)
		newDirect[i] = sb.DataBlockNum(bit)
	}

	// Release trailing blocks beyond the new block count and zero their
	// pointers — invariant #3 only requires the first r to be valid, but
	// a live pointer past size would be stale, so it is cleared.
	for i := r; i < c; i++ {
		bmBl.Clear(sb.DataBit(newDirect[i]))
		newDirect[i] = NilPtr
	}

	ino.Size = size
	ino.Direct = newDirect
	inodes[inum] = ino

	lastBlockLen := int32(0)
	if size > 0 {
		lastBlockLen = (size-1)%BlockSize + 1
	}

	blockBufs := make([][]byte, r)
	for i := int32(0); i < r; i++ {
		blockBuf := make([]byte, BlockSize)
		n := int32(BlockSize)
		if i == r-1 {
			n = lastBlockLen
		}
		copy(blockBuf[:n], buf[i*BlockSize:i*BlockSize+n])
		blockBufs[i] = blockBuf
	}

	if err := fs.dev.BeginTransaction(); err != nil {
		return 0, Wrap(ErrIO, "begin transaction: %v", err)
	}
	if err := writeInodeRegion(fs.dev, sb, inodes); err != nil {
		return 0, err
	}
	if err := writeBitmapRegion(fs.dev, sb.DataBitmapAddr, sb.DataBitmapLen, bmBl); err != nil {
		return 0, err
	}
	for i := int32(0); i < r; i++ {
		if err := fs.dev.WriteBlock(int(newDirect[i]), blockBufs[i]); err != nil {
			return 0, Wrap(ErrIO, "writing data block %d: %v", newDirect[i], err)
		}
	}
	if err := fs.dev.Commit(); err != nil {
		return 0, Wrap(ErrIO, "commit: %v", err)
	}

	return size, nil
}
