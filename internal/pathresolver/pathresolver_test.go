package pathresolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/pathresolver"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

func TestResolveNestedPath(t *testing.T) {
	dev := block.NewMemDevice(ufs.BlockSize, 128)
	require.NoError(t, ufs.Format(dev, 64, 64))
	fs := ufs.New(dev)

	dirInum, err := fs.Create(ufs.RootInum, ufs.InodeDirectory, "a")
	require.NoError(t, err)
	fileInum, err := fs.Create(dirInum, ufs.InodeFile, "b.txt")
	require.NoError(t, err)

	got, err := pathresolver.Resolve(fs, ufs.RootInum, "/a/b.txt")
	require.NoError(t, err)
	require.Equal(t, fileInum, got)

	root, err := pathresolver.Resolve(fs, ufs.RootInum, "")
	require.NoError(t, err)
	require.Equal(t, ufs.RootInum, root)
}

func TestResolveParentSplitsFinalComponent(t *testing.T) {
	dev := block.NewMemDevice(ufs.BlockSize, 128)
	require.NoError(t, ufs.Format(dev, 64, 64))
	fs := ufs.New(dev)

	dirInum, err := fs.Create(ufs.RootInum, ufs.InodeDirectory, "a")
	require.NoError(t, err)

	parent, name, err := pathresolver.ResolveParent(fs, ufs.RootInum, "/a/b.txt")
	require.NoError(t, err)
	require.Equal(t, dirInum, parent)
	require.Equal(t, "b.txt", name)
}
