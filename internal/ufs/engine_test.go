package ufs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

func newTestFS(t *testing.T, numInodes, numData int32) *ufs.FileSystem {
	t.Helper()
	// Generous block count: superblock + bitmaps + inode region + data region.
	dev := block.NewMemDevice(ufs.BlockSize, 64+int(numData))
	require.NoError(t, ufs.Format(dev, numInodes, numData))
	return ufs.New(dev)
}

func TestFormatCreatesRootDirectory(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	root, err := fs.Stat(ufs.RootInum)
	require.NoError(t, err)
	require.Equal(t, ufs.InodeDirectory, root.Type)
	require.Equal(t, int32(2*ufs.DirEntrySize), root.Size)

	self, err := fs.Lookup(ufs.RootInum, ".")
	require.NoError(t, err)
	require.Equal(t, ufs.RootInum, self)

	parent, err := fs.Lookup(ufs.RootInum, "..")
	require.NoError(t, err)
	require.Equal(t, ufs.RootInum, parent)
}

func TestCreateFileThenLookupAndStat(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	inum, err := fs.Create(ufs.RootInum, ufs.InodeFile, "hello.txt")
	require.NoError(t, err)
	require.NotEqual(t, ufs.RootInum, inum)

	found, err := fs.Lookup(ufs.RootInum, "hello.txt")
	require.NoError(t, err)
	require.Equal(t, inum, found)

	st, err := fs.Stat(inum)
	require.NoError(t, err)
	require.Equal(t, ufs.InodeFile, st.Type)
	require.Equal(t, int32(0), st.Size)
}

func TestCreateIsIdempotentForSameType(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	first, err := fs.Create(ufs.RootInum, ufs.InodeFile, "a")
	require.NoError(t, err)

	second, err := fs.Create(ufs.RootInum, ufs.InodeFile, "a")
	require.NoError(t, err)
	require.Equal(t, int32(0), second)

	found, err := fs.Lookup(ufs.RootInum, "a")
	require.NoError(t, err)
	require.Equal(t, first, found)
}

func TestCreateConflictingTypeFails(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	_, err := fs.Create(ufs.RootInum, ufs.InodeFile, "a")
	require.NoError(t, err)

	_, err = fs.Create(ufs.RootInum, ufs.InodeDirectory, "a")
	require.Error(t, err)
	require.True(t, ufs.IsInvalidType(err))
}

func TestCreateDirectoryHasDotAndDotDot(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	dirInum, err := fs.Create(ufs.RootInum, ufs.InodeDirectory, "sub")
	require.NoError(t, err)

	self, err := fs.Lookup(dirInum, ".")
	require.NoError(t, err)
	require.Equal(t, dirInum, self)

	parent, err := fs.Lookup(dirInum, "..")
	require.NoError(t, err)
	require.Equal(t, ufs.RootInum, parent)
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	inum, err := fs.Create(ufs.RootInum, ufs.InodeFile, "data.bin")
	require.NoError(t, err)

	payload := make([]byte, ufs.BlockSize+17)
	for i := range payload {
		payload[i] = byte(i)
	}

	n, err := fs.Write(inum, payload, int32(len(payload)))
	require.NoError(t, err)
	require.Equal(t, int32(len(payload)), n)

	out := make([]byte, len(payload))
	rn, err := fs.Read(inum, out, int32(len(out)))
	require.NoError(t, err)
	require.Equal(t, int32(len(payload)), rn)
	require.Equal(t, payload, out)
}

func TestWriteShrinkClearsTrailingBlocks(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	inum, err := fs.Create(ufs.RootInum, ufs.InodeFile, "data.bin")
	require.NoError(t, err)

	big := make([]byte, 3*ufs.BlockSize)
	_, err = fs.Write(inum, big, int32(len(big)))
	require.NoError(t, err)

	small := []byte("hi")
	n, err := fs.Write(inum, small, int32(len(small)))
	require.NoError(t, err)
	require.Equal(t, int32(2), n)

	st, err := fs.Stat(inum)
	require.NoError(t, err)
	require.Equal(t, int32(2), st.Size)
	require.Equal(t, ufs.NilPtr, st.Direct[1])
	require.Equal(t, ufs.NilPtr, st.Direct[2])
}

func TestWriteExceedingMaxFileSizeFails(t *testing.T) {
	fs := newTestFS(t, 32, 8)

	inum, err := fs.Create(ufs.RootInum, ufs.InodeFile, "data.bin")
	require.NoError(t, err)

	_, err = fs.Write(inum, make([]byte, ufs.MaxFileSize+1), ufs.MaxFileSize+1)
	require.Error(t, err)
	require.True(t, ufs.IsInvalidSize(err))
}

func TestUnlinkRemovesEntryAndIsIdempotent(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	inum, err := fs.Create(ufs.RootInum, ufs.InodeFile, "gone.txt")
	require.NoError(t, err)

	require.NoError(t, fs.Unlink(ufs.RootInum, "gone.txt"))

	_, err = fs.Lookup(ufs.RootInum, "gone.txt")
	require.Error(t, err)
	require.True(t, ufs.IsNotFound(err))

	// Idempotent: unlinking an absent name succeeds.
	require.NoError(t, fs.Unlink(ufs.RootInum, "gone.txt"))

	// The inode number is free for reuse by a later create.
	reused, err := fs.Create(ufs.RootInum, ufs.InodeFile, "new.txt")
	require.NoError(t, err)
	require.Equal(t, inum, reused)
}

func TestUnlinkNonEmptyDirectoryFails(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	dirInum, err := fs.Create(ufs.RootInum, ufs.InodeDirectory, "sub")
	require.NoError(t, err)
	_, err = fs.Create(dirInum, ufs.InodeFile, "child")
	require.NoError(t, err)

	err = fs.Unlink(ufs.RootInum, "sub")
	require.Error(t, err)
	require.True(t, ufs.IsDirNotEmpty(err))
}

func TestUnlinkDotAndDotDotNotAllowed(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	err := fs.Unlink(ufs.RootInum, ".")
	require.Error(t, err)
	require.True(t, ufs.IsUnlinkNotAllowed(err))

	err = fs.Unlink(ufs.RootInum, "..")
	require.Error(t, err)
	require.True(t, ufs.IsUnlinkNotAllowed(err))
}

func TestUnlinkThenLookupOfSurvivingEntryWorks(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	first, err := fs.Create(ufs.RootInum, ufs.InodeFile, "a")
	require.NoError(t, err)
	second, err := fs.Create(ufs.RootInum, ufs.InodeFile, "b")
	require.NoError(t, err)
	_ = first

	require.NoError(t, fs.Unlink(ufs.RootInum, "a"))

	found, err := fs.Lookup(ufs.RootInum, "b")
	require.NoError(t, err)
	require.Equal(t, second, found)
}

func TestCreateManyChildrenFillsMultipleDirectoryBlocks(t *testing.T) {
	fs := newTestFS(t, 256, 256)

	perBlock := ufs.EntriesPerBlock
	for i := 0; i < perBlock+1; i++ {
		name := "f" + string(rune('a'+i%26)) + string(rune('A'+(i/26)%26))
		_, err := fs.Create(ufs.RootInum, ufs.InodeFile, name)
		require.NoError(t, err)
	}

	root, err := fs.Stat(ufs.RootInum)
	require.NoError(t, err)
	require.NotEqual(t, ufs.NilPtr, root.Direct[1])
}

func TestCreateInsufficientInodesFails(t *testing.T) {
	fs := newTestFS(t, 1, 64)

	_, err := fs.Create(ufs.RootInum, ufs.InodeFile, "a")
	require.Error(t, err)
	require.True(t, ufs.IsInsufficientSpace(err))
}

func TestInvalidInodeRangeReturnsInvalidInode(t *testing.T) {
	fs := newTestFS(t, 32, 64)

	_, err := fs.Stat(1000)
	require.Error(t, err)
	require.True(t, ufs.IsInvalidInode(err))

	_, err = fs.Lookup(-1, "x")
	require.Error(t, err)
	require.True(t, ufs.IsInvalidInode(err))
}
