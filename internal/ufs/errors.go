package ufs

import (
	"errors"
	"fmt"
)

// Error kinds returned by engine operations (spec.md §7). Each public
// operation returns either a non-negative result or exactly one of
// these, wrapped with operation-specific detail via Wrap.
var (
	ErrInvalidInode      = errors.New("ufs: invalid inode")
	ErrInvalidSize       = errors.New("ufs: invalid size")
	ErrInvalidName       = errors.New("ufs: invalid name")
	ErrInvalidType       = errors.New("ufs: invalid type")
	ErrNotFound          = errors.New("ufs: not found")
	ErrInsufficientSpace = errors.New("ufs: insufficient space")
	ErrDirNotEmpty       = errors.New("ufs: directory not empty")
	ErrUnlinkNotAllowed  = errors.New("ufs: unlink not allowed")

	// ErrIO marks a fatal block-device failure. Nothing inside the
	// engine retries it; it aborts the operation in progress.
	ErrIO = errors.New("ufs: io error")
)

// Wrap attaches op-specific detail to a sentinel error kind while
// keeping it matchable with errors.Is(err, base).
func Wrap(base error, format string, a ...any) error {
	if base == nil {
		return nil
	}
	if format == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, a...))
}

func IsInvalidInode(err error) bool      { return errors.Is(err, ErrInvalidInode) }
func IsInvalidSize(err error) bool       { return errors.Is(err, ErrInvalidSize) }
func IsInvalidName(err error) bool       { return errors.Is(err, ErrInvalidName) }
func IsInvalidType(err error) bool       { return errors.Is(err, ErrInvalidType) }
func IsNotFound(err error) bool          { return errors.Is(err, ErrNotFound) }
func IsInsufficientSpace(err error) bool { return errors.Is(err, ErrInsufficientSpace) }
func IsDirNotEmpty(err error) bool       { return errors.Is(err, ErrDirNotEmpty) }
func IsUnlinkNotAllowed(err error) bool  { return errors.Is(err, ErrUnlinkNotAllowed) }
func IsIO(err error) bool                { return errors.Is(err, ErrIO) }
