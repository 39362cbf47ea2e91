package ufs

// Lookup scans parentInum's directory data blocks sequentially for an
// entry named name and returns its inode number. Per spec.md §4.4, a
// -1 block pointer or an entry with Inum == -1 encountered mid-scan
// terminates the search with ErrNotFound — live entries are packed
// densely from the start of the directory.
func (fs *FileSystem) Lookup(parentInum int32, name string) (int32, error) {
	sb, err := ReadSuperBlock(fs.dev)
	if err != nil {
		return 0, err
	}
	if !checkInodeRange(sb, parentInum) {
		return 0, Wrap(ErrInvalidInode, "parent inum %d out of range", parentInum)
	}

	parent, err := readInodeSingle(fs.dev, sb, parentInum)
	if err != nil {
		return 0, err
	}
	if parent.Type != InodeDirectory {
		return 0, Wrap(ErrInvalidInode, "inum %d is not a directory", parentInum)
	}

	buf := make([]byte, fs.dev.BlockSize())
	for _, blockNum := range parent.Direct {
		if blockNum == NilPtr {
			return 0, Wrap(ErrNotFound, "%q not found in directory %d", name, parentInum)
		}
		if err := fs.dev.ReadBlock(int(blockNum), buf); err != nil {
			return 0, Wrap(ErrIO, "reading directory block %d: %v", blockNum, err)
		}
		entries, err := decodeDirBlock(buf)
		if err != nil {
			return 0, err
		}
		for _, e := range entries {
			if !e.Live() {
				return 0, Wrap(ErrNotFound, "%q not found in directory %d", name, parentInum)
			}
			if e.NameString() == name {
				return e.Inum, nil
			}
		}
	}
	return 0, Wrap(ErrNotFound, "%q not found in directory %d", name, parentInum)
}
