// Package pathresolver walks slash-separated URL paths over a
// ufs.FileSystem by repeated lookup, the same way
// DistributedFileSystemService::parsePath did in the original ds3
// service: an empty component (from a leading, trailing, or doubled
// slash) stays at the current inode, and an empty path resolves to the
// starting inode.
package pathresolver

import (
	"strings"

	"github.com/isostack/distributed-file-system/internal/ufs"
)

// Resolve walks path component by component, starting at root (usually
// ufs.RootInum), and returns the inode number the full path names.
func Resolve(fs *ufs.FileSystem, root int32, path string) (int32, error) {
	inum := root
	for _, part := range splitPath(path) {
		next, err := fs.Lookup(inum, part)
		if err != nil {
			return 0, err
		}
		inum = next
	}
	return inum, nil
}

// ResolveParent walks all but the last component of path and returns
// the parent inode number along with the final component's name,
// suitable for passing straight to Create or Unlink. An empty path (or
// one naming only the root) returns the root inode with an empty name.
func ResolveParent(fs *ufs.FileSystem, root int32, path string) (int32, string, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return root, "", nil
	}
	inum := root
	for _, part := range parts[:len(parts)-1] {
		next, err := fs.Lookup(inum, part)
		if err != nil {
			return 0, "", err
		}
		inum = next
	}
	return inum, parts[len(parts)-1], nil
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
