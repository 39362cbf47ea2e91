package ufs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/isostack/distributed-file-system/internal/block"
)

func encodeInode(ino Inode) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, int32(ino.Type))
	_ = binary.Write(&buf, binary.LittleEndian, ino.Size)
	_ = binary.Write(&buf, binary.LittleEndian, ino.Direct)
	return buf.Bytes()
}

func decodeInode(data []byte) (Inode, error) {
	r := bytes.NewReader(data)
	var ino Inode
	var typ int32
	if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
		return Inode{}, fmt.Errorf("ufs: decoding inode type: %w", err)
	}
	ino.Type = InodeType(typ)
	if err := binary.Read(r, binary.LittleEndian, &ino.Size); err != nil {
		return Inode{}, fmt.Errorf("ufs: decoding inode size: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &ino.Direct); err != nil {
		return Inode{}, fmt.Errorf("ufs: decoding inode direct ptrs: %w", err)
	}
	return ino, nil
}

// readInodeSingle reads just the one block containing inode inum and
// decodes it, per spec.md §4.3: stat touches only that block.
func readInodeSingle(dev block.Device, sb SuperBlock, inum int32) (Inode, error) {
	blockIdx := inum / InodesPerBlock
	slot := inum % InodesPerBlock
	buf := make([]byte, dev.BlockSize())
	if err := dev.ReadBlock(int(sb.InodeRegionAddr+blockIdx), buf); err != nil {
		return Inode{}, Wrap(ErrIO, "reading inode block %d: %v", sb.InodeRegionAddr+blockIdx, err)
	}
	return decodeInode(buf[int(slot)*InodeSize : int(slot+1)*InodeSize])
}

// readInodeRegion loads the entire inode table into memory, one entry
// per inode number 0..sb.NumInodes-1 (spec.md §4.2).
func readInodeRegion(dev block.Device, sb SuperBlock) ([]Inode, error) {
	inodes := make([]Inode, sb.NumInodes)
	bs := dev.BlockSize()
	buf := make([]byte, bs)
	for b := int32(0); b < sb.InodeRegionLen; b++ {
		if err := dev.ReadBlock(int(sb.InodeRegionAddr+b), buf); err != nil {
			return nil, Wrap(ErrIO, "reading inode region block %d: %v", sb.InodeRegionAddr+b, err)
		}
		for slot := 0; slot < InodesPerBlock; slot++ {
			idx := b*InodesPerBlock + int32(slot)
			if idx >= sb.NumInodes {
				break
			}
			ino, err := decodeInode(buf[slot*InodeSize : (slot+1)*InodeSize])
			if err != nil {
				return nil, err
			}
			inodes[idx] = ino
		}
	}
	return inodes, nil
}

// writeInodeRegion stages a write of the entire inode table back to
// disk. Must be called within an open transaction.
func writeInodeRegion(dev block.Device, sb SuperBlock, inodes []Inode) error {
	bs := dev.BlockSize()
	buf := make([]byte, bs)
	for b := int32(0); b < sb.InodeRegionLen; b++ {
		for slot := 0; slot < InodesPerBlock; slot++ {
			idx := b*InodesPerBlock + int32(slot)
			var enc []byte
			if idx < sb.NumInodes {
				enc = encodeInode(inodes[idx])
			} else {
				enc = encodeInode(Inode{})
			}
			copy(buf[slot*InodeSize:(slot+1)*InodeSize], enc)
		}
		if err := dev.WriteBlock(int(sb.InodeRegionAddr+b), buf); err != nil {
			return Wrap(ErrIO, "writing inode region block %d: %v", sb.InodeRegionAddr+b, err)
		}
	}
	return nil
}
