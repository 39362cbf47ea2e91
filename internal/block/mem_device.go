package block

import "fmt"

// MemDevice is an in-memory Device, the injected collaborator tests
// substitute for a real disk image (design notes, spec.md §9). FailOn,
// when set, lets a test simulate the block device rejecting a write
// partway through a transaction so the caller can assert the disk is
// left byte-identical to its pre-transaction state.
type MemDevice struct {
	blockSize int
	blocks    [][]byte

	txActive bool
	staged   map[int][]byte

	// FailOn, if non-nil, is consulted on every WriteBlock during a
	// transaction and again for every staged block at Commit. An error
	// from WriteBlock's call rejects that one write (nothing is staged
	// for it); an error from Commit's call fails Commit and no staged
	// write is applied.
	FailOn func(blockNum int) error
}

// NewMemDevice allocates a zero-filled in-memory device.
func NewMemDevice(blockSize, numBlocks int) *MemDevice {
	blocks := make([][]byte, numBlocks)
	for i := range blocks {
		blocks[i] = make([]byte, blockSize)
	}
	return &MemDevice{blockSize: blockSize, blocks: blocks}
}

func (d *MemDevice) BlockSize() int { return d.blockSize }
func (d *MemDevice) NumBlocks() int { return len(d.blocks) }

func (d *MemDevice) checkBlock(n int) error {
	if n < 0 || n >= len(d.blocks) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return nil
}

func (d *MemDevice) ReadBlock(n int, dst []byte) error {
	if err := d.checkBlock(n); err != nil {
		return err
	}
	if len(dst) != d.blockSize {
		return fmt.Errorf("block: dst length %d != block size %d", len(dst), d.blockSize)
	}
	copy(dst, d.blocks[n])
	return nil
}

func (d *MemDevice) WriteBlock(n int, src []byte) error {
	if !d.txActive {
		return ErrNoTransaction
	}
	if err := d.checkBlock(n); err != nil {
		return err
	}
	if len(src) != d.blockSize {
		return fmt.Errorf("block: src length %d != block size %d", len(src), d.blockSize)
	}
	if d.FailOn != nil {
		if err := d.FailOn(n); err != nil {
			return err
		}
	}
	buf := make([]byte, d.blockSize)
	copy(buf, src)
	d.staged[n] = buf
	return nil
}

func (d *MemDevice) BeginTransaction() error {
	if d.txActive {
		return ErrTransactionActive
	}
	d.txActive = true
	d.staged = make(map[int][]byte)
	return nil
}

func (d *MemDevice) Commit() error {
	if !d.txActive {
		return ErrNoTransaction
	}
	defer func() {
		d.txActive = false
		d.staged = nil
	}()

	// Check every staged block first so a mid-transaction failure never applies
	// a partial set of writes to d.blocks.
	for n := range d.staged {
		if d.FailOn != nil {
			if err := d.FailOn(n); err != nil {
				return err
			}
		}
	}
	for n, buf := range d.staged {
		d.blocks[n] = buf
	}
	return nil
}

// Snapshot returns a deep copy of every block, for atomicity assertions
// in tests (compare a snapshot taken before a failed transaction against
// one taken after).
func (d *MemDevice) Snapshot() [][]byte {
	out := make([][]byte, len(d.blocks))
	for i, b := range d.blocks {
		cp := make([]byte, len(b))
		copy(cp, b)
		out[i] = cp
	}
	return out
}
