// Package gateway exposes a mounted UFS image's namespace as a URL
// tree, mirroring DistributedFileSystemService's GET/PUT/DELETE mapping
// from the ds3 lab onto net/http. Registry tracks every mounted image
// the same way internal/mount.Registry in the teacher repo tracks
// mounted partitions, keyed by an opaque google/uuid handle instead of
// a disk letter and partition number since a UFS image has no MBR.
package gateway

import (
	"sync"

	"github.com/google/uuid"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

var ErrNotMounted = errRegistry("gateway: id not mounted")

type errRegistry string

func (e errRegistry) Error() string { return string(e) }

// Mount is one opened UFS image plus the path it was opened from.
type Mount struct {
	ID   uuid.UUID
	Path string
	FS   *ufs.FileSystem
}

// Registry is the in-memory table of currently mounted images, guarded
// the same way the teacher's mount.Registry guards its disk table.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Mount
	byPath map[string]uuid.UUID
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uuid.UUID]*Mount),
		byPath: make(map[string]uuid.UUID),
	}
}

// MountImage opens an existing UFS image file and registers it under a
// fresh id. Mounting the same path twice returns the existing id rather
// than opening a second handle onto it.
func (r *Registry) MountImage(path string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPath[path]; ok {
		return id, nil
	}

	dev, err := block.OpenFileDevice(path, ufs.BlockSize)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	r.byID[id] = &Mount{ID: id, Path: path, FS: ufs.New(dev)}
	r.byPath[path] = id
	return id, nil
}

func (r *Registry) Get(id uuid.UUID) (*Mount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

func (r *Registry) Unmount(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byPath, m.Path)
	return true
}
