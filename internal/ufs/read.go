package ufs

// Read copies min(size, stat(inum).size) bytes starting at the
// beginning of inum's data into buf, which must be at least that long,
// and returns the number of bytes copied (spec.md §4.5). Both files and
// directories are readable.
func (fs *FileSystem) Read(inum int32, buf []byte, size int32) (int32, error) {
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

	ino, err := readInodeSingle(fs.dev, sb, inum)
	if err != nil {
		return 0, err
	}
	if ino.Type != InodeFile && ino.Type != InodeDirectory {
		return 0, Wrap(ErrInvalidType, "inum %d has no readable type", inum)
	}

	effective := size
	if ino.Size < effective {
		effective = ino.Size
	}
	if len(buf) < int(effective) {
		return 0, Wrap(ErrInvalidSize, "buffer length %d smaller than %d bytes to read", len(buf), effective)
	}

	numBlocks := ceilDiv(effective, BlockSize)
	lastBlockLen := effective % BlockSize
	if lastBlockLen == 0 && effective > 0 {
		lastBlockLen = BlockSize
	}

	blockBuf := make([]byte, fs.dev.BlockSize())
	for i := int32(0); i < numBlocks; i++ {
		blockNum := ino.Direct[i]
		if err := fs.dev.ReadBlock(int(blockNum), blockBuf); err != nil {
			return 0, Wrap(ErrIO, "reading block %d: %v", blockNum, err)
		}
		n := int32(BlockSize)
		if i == numBlocks-1 {
			n = lastBlockLen
		}
		copy(buf[i*BlockSize:i*BlockSize+n], blockBuf[:n])
	}
	return effective, nil
}
