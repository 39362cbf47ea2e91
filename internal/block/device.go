// Package block implements the flat block-addressable device the ufs
// engine is built on: fixed-size blocks, read/write by block number, and
// a begin/commit transaction pair that makes a batch of writes visible
// atomically.
package block

import "errors"

// ErrOutOfRange is returned when a block number falls outside the
// device's block count.
var ErrOutOfRange = errors.New("block: block number out of range")

// ErrNoTransaction is returned by WriteBlock when called outside an
// active transaction.
var ErrNoTransaction = errors.New("block: no active transaction")

// ErrTransactionActive is returned by BeginTransaction when one is
// already in progress.
var ErrTransactionActive = errors.New("block: transaction already active")

// Device is the block-addressable store the ufs engine reads and writes
// through. A caller assembles every write of one logical operation
// between BeginTransaction and Commit; ReadBlock is never called while a
// transaction is open (the engine holds everything it needs in memory by
// the time it starts writing).
type Device interface {
	// BlockSize returns the fixed size of every block, in bytes.
	BlockSize() int

	// NumBlocks returns the total block count backing the device.
	NumBlocks() int

	// ReadBlock copies block n into dst. len(dst) must equal BlockSize().
	ReadBlock(n int, dst []byte) error

	// WriteBlock stages a write of block n from src. Only valid between
	// BeginTransaction and Commit. len(src) must equal BlockSize().
	WriteBlock(n int, src []byte) error

	// BeginTransaction opens a staging area for writes.
	BeginTransaction() error

	// Commit atomically applies every staged write and closes the
	// transaction. On error, no staged write is applied.
	Commit() error
}
