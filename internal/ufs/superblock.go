package ufs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/isostack/distributed-file-system/internal/block"
)

// SuperBlock is the on-disk header at block 0 describing every region's
// address and length, in blocks, plus the inode/data slot counts.
type SuperBlock struct {
	InodeBitmapAddr int32
	InodeBitmapLen  int32
	DataBitmapAddr  int32
	DataBitmapLen   int32
	InodeRegionAddr int32
	InodeRegionLen  int32
	DataRegionAddr  int32
	NumInodes       int32
	NumData         int32
}

// superBlockWireSize is sizeof(super_t) on disk: nine int32 fields.
const superBlockWireSize = 9 * 4

func (sb SuperBlock) encode() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, sb)
	return buf.Bytes()
}

func decodeSuperBlock(data []byte) (SuperBlock, error) {
	var sb SuperBlock
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &sb); err != nil {
		return SuperBlock{}, fmt.Errorf("ufs: decoding superblock: %w", err)
	}
	return sb, nil
}

// ReadSuperBlock reads and decodes the superblock from block 0.
func ReadSuperBlock(dev block.Device) (SuperBlock, error) {
	buf := make([]byte, dev.BlockSize())
	if err := dev.ReadBlock(0, buf); err != nil {
		return SuperBlock{}, Wrap(ErrIO, "reading superblock: %v", err)
	}
	return decodeSuperBlock(buf[:superBlockWireSize])
}

// writeSuperBlock stages a write of the superblock to block 0. Must be
// called within an open transaction.
func writeSuperBlock(dev block.Device, sb SuperBlock) error {
	buf := make([]byte, dev.BlockSize())
	copy(buf, sb.encode())
	return dev.WriteBlock(0, buf)
}

// DataBlockNum converts a data bitmap bit index to an absolute block
// number.
func (sb SuperBlock) DataBlockNum(bit int32) int32 {
	return sb.DataRegionAddr + bit
}

// DataBit converts an absolute data-region block number back to its
// data bitmap bit index.
func (sb SuperBlock) DataBit(blockNum int32) int32 {
	return blockNum - sb.DataRegionAddr
}
