package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/isostack/distributed-file-system/internal/pathresolver"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

// Gateway serves fs's namespace directly under urlPrefix, the way
// DistributedFileSystemService's get/put/del mapped the ds3 lab's
// single ufs.h-backed disk onto "ds3/<path>". reg additionally tracks
// any further images mounted at runtime, reachable under /mnt/{id}/
// without disturbing the primary urlPrefix mapping.
type Gateway struct {
	fs         *ufs.FileSystem
	reg        *Registry
	urlPrefix  string
	maxReadLen int32

	// mu serializes every filesystem request; the ufs engine is
	// single-threaded and net/http serves requests concurrently.
	mu sync.Mutex
}

func New(fs *ufs.FileSystem, reg *Registry, urlPrefix string, maxReadLen int32) *Gateway {
	return &Gateway{fs: fs, reg: reg, urlPrefix: strings.TrimRight(urlPrefix, "/"), maxReadLen: maxReadLen}
}

// Mux builds the http.ServeMux routing the primary filesystem tree,
// mount management, and additionally mounted images, mirroring the
// teacher's runHTTP registration style (one mux.HandleFunc per
// concern, no router library anywhere in the retrieved examples).
func (g *Gateway) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/mount", g.handleMount)
	mux.HandleFunc("/mnt/", g.handleMountedFS)
	mux.HandleFunc(g.urlPrefix+"/", g.handleDefaultFS)
	return mux
}

type mountRequest struct {
	Path string `json:"path"`
}

type mountResponse struct {
	ID string `json:"id"`
}

func (g *Gateway) handleMount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "solo POST", http.StatusMethodNotAllowed)
		return
	}
	var req mountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSONError(w, http.StatusBadRequest, "mount: se requiere path")
		return
	}
	id, err := g.reg.MountImage(req.Path)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, mountResponse{ID: id.String()})
}

// handleDefaultFS dispatches a GET, PUT, or DELETE against
// {urlPrefix}/{path...}, resolved from g.fs's root exactly as spec.md
// §6 and DistributedFileSystemService::parsePath require: no mount id
// in the path, one image, one tree.
func (g *Gateway) handleDefaultFS(w http.ResponseWriter, r *http.Request) {
	subPath := strings.TrimPrefix(r.URL.Path, g.urlPrefix+"/")
	g.dispatch(w, r, g.fs, subPath)
}

// handleMountedFS dispatches a GET, PUT, or DELETE against
// /mnt/{id}/{path...}, an additive route onto any image registered
// through POST /mount, alongside (not instead of) the primary tree.
func (g *Gateway) handleMountedFS(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/mnt/")
	id, subPath, ok := splitMountID(rest)
	if !ok {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	mnt, ok := g.reg.Get(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	g.dispatch(w, r, mnt.FS, subPath)
}

func (g *Gateway) dispatch(w http.ResponseWriter, r *http.Request, fs *ufs.FileSystem, subPath string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		g.get(w, fs, subPath)
	case http.MethodPut:
		g.put(w, r, fs, subPath)
	case http.MethodDelete:
		g.delete(w, fs, subPath)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func splitMountID(rest string) (uuid.UUID, string, bool) {
	parts := strings.SplitN(rest, "/", 2)
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", false
	}
	if len(parts) == 1 {
		return id, "", true
	}
	return id, parts[1], true
}

// get implements DistributedFileSystemService::get: walk the path via
// lookup, read the target, and either return file bytes verbatim or a
// newline-separated, sorted directory listing with a trailing slash on
// subdirectory names.
func (g *Gateway) get(w http.ResponseWriter, fs *ufs.FileSystem, subPath string) {
	inodeNum, err := pathresolver.Resolve(fs, ufs.RootInum, subPath)
	if err != nil {
		if ufs.IsNotFound(err) {
			http.Error(w, "not found", http.StatusNotFound)
		} else {
			http.Error(w, "bad request", http.StatusBadRequest)
		}
		return
	}

	ino, err := fs.Stat(inodeNum)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	buf := make([]byte, ino.Size)
	n, err := fs.Read(inodeNum, buf, ino.Size)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	buf = buf[:n]

	if ino.Type == ufs.InodeFile {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(buf)
		return
	}

	entries, err := decodeEntries(buf)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].NameString() < entries[j].NameString() })

	var sb strings.Builder
	for _, e := range entries {
		name := e.NameString()
		if name == "." || name == ".." {
			continue
		}
		entryInode, err := fs.Stat(e.Inum)
		if err != nil {
			continue
		}
		if entryInode.Type == ufs.InodeDirectory {
			name += "/"
		}
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, sb.String())
}

// put implements DistributedFileSystemService::put: walk the path,
// creating any missing directory components (and the final component
// as a regular file) along the way, then overwrite its contents with
// the request body.
func (g *Gateway) put(w http.ResponseWriter, r *http.Request, fs *ufs.FileSystem, subPath string) {
	parts := splitNonEmpty(subPath)
	if len(parts) == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	inodeNum := ufs.RootInum
	for i, part := range parts {
		next, err := fs.Lookup(inodeNum, part)
		if ufs.IsNotFound(err) {
			typ := ufs.InodeDirectory
			if i == len(parts)-1 {
				typ = ufs.InodeFile
			}
			next, err = fs.Create(inodeNum, typ, part)
			if ufs.IsInsufficientSpace(err) {
				http.Error(w, "insufficient storage", http.StatusInsufficientStorage)
				return
			} else if ufs.IsInvalidType(err) {
				http.Error(w, "conflict", http.StatusConflict)
				return
			} else if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
		} else if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		inodeNum = next
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if int32(len(body)) > g.maxReadLen {
		http.Error(w, "insufficient storage", http.StatusInsufficientStorage)
		return
	}

	_, err = fs.Write(inodeNum, body, int32(len(body)))
	if ufs.IsInsufficientSpace(err) || ufs.IsInvalidSize(err) {
		http.Error(w, "insufficient storage", http.StatusInsufficientStorage)
		return
	} else if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// delete implements DistributedFileSystemService::del: walking a
// missing entry is a quiet success (the original treats any negative
// lookup as "nothing to delete"), and it's a bad request for the path
// to resolve through something other than a directory.
func (g *Gateway) delete(w http.ResponseWriter, fs *ufs.FileSystem, subPath string) {
	parts := splitNonEmpty(subPath)
	if len(parts) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	parentInum := ufs.RootInum
	inodeNum := ufs.RootInum
	for _, part := range parts {
		ino, err := fs.Stat(inodeNum)
		if err != nil || ino.Type != ufs.InodeDirectory {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		parentInum = inodeNum
		next, err := fs.Lookup(inodeNum, part)
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		inodeNum = next
	}

	if err := fs.Unlink(parentInum, parts[len(parts)-1]); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func splitNonEmpty(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func decodeEntries(buf []byte) ([]ufs.DirEntry, error) {
	if len(buf)%int(ufs.DirEntrySize) != 0 {
		return nil, fmt.Errorf("gateway: directory data not a multiple of entry size")
	}
	n := len(buf) / int(ufs.DirEntrySize)
	entries := make([]ufs.DirEntry, 0, n)
	for i := 0; i < n; i++ {
		e, err := ufs.DecodeRawEntry(buf[i*int(ufs.DirEntrySize) : (i+1)*int(ufs.DirEntrySize)])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
