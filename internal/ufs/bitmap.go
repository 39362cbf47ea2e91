package ufs

import (
	"github.com/isostack/distributed-file-system/internal/block"
)

// Bitmap is an in-memory copy of a contiguous bit-array region (the
// inode bitmap or the data bitmap), LSB-first within each byte: bit i
// lives in byte i/8 at bit position i%8. The region is always read and
// written as whole blocks — no implementation path flips a single bit on
// disk in isolation (spec.md §4.1).
type Bitmap []byte

// Test reports whether bit i is set.
func (b Bitmap) Test(i int32) bool {
	return b[i/8]&(1<<(uint(i)%8)) != 0
}

// Set marks bit i as in use.
func (b Bitmap) Set(i int32) {
	b[i/8] |= 1 << (uint(i) % 8)
}

// Clear marks bit i as free.
func (b Bitmap) Clear(i int32) {
	b[i/8] &^= 1 << (uint(i) % 8)
}

// FirstClear returns the lowest-numbered clear bit within the first
// lenBits bits, or -1 if none is clear.
func (b Bitmap) FirstClear(lenBits int32) int32 {
	for i := int32(0); i < lenBits; i++ {
		if !b.Test(i) {
			return i
		}
	}
	return -1
}

// CountClear returns the number of clear bits within the first lenBits
// bits.
func (b Bitmap) CountClear(lenBits int32) int32 {
	var n int32
	for i := int32(0); i < lenBits; i++ {
		if !b.Test(i) {
			n++
		}
	}
	return n
}

// readBitmapRegion reads addr..addr+lenBlocks (in blocks) into one
// contiguous Bitmap.
func readBitmapRegion(dev block.Device, addr, lenBlocks int32) (Bitmap, error) {
	bs := dev.BlockSize()
	out := make(Bitmap, int(lenBlocks)*bs)
	for i := int32(0); i < lenBlocks; i++ {
		if err := dev.ReadBlock(int(addr+i), out[int(i)*bs:int(i+1)*bs]); err != nil {
			return nil, Wrap(ErrIO, "reading bitmap block %d: %v", addr+i, err)
		}
	}
	return out, nil
}

// writeBitmapRegion stages a write of the whole bitmap back to
// addr..addr+lenBlocks. Must be called within an open transaction.
func writeBitmapRegion(dev block.Device, addr, lenBlocks int32, bm Bitmap) error {
	bs := dev.BlockSize()
	for i := int32(0); i < lenBlocks; i++ {
		if err := dev.WriteBlock(int(addr+i), bm[int(i)*bs:int(i+1)*bs]); err != nil {
			return Wrap(ErrIO, "writing bitmap block %d: %v", addr+i, err)
		}
	}
	return nil
}
