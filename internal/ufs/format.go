package ufs

import "github.com/isostack/distributed-file-system/internal/block"

// Format lays out a fresh superblock, inode bitmap, data bitmap, and
// inode region across dev, then creates the root directory (inode 0)
// with its single data block. dev must already be sized to hold the
// resulting layout (block.CreateFileDevice / NewMemDevice with enough
// blocks).
func Format(dev block.Device, numInodes, numData int32) error {
	bs := int32(dev.BlockSize())

	inodeBitmapAddr := int32(1)
	inodeBitmapLen := ceilDiv(numInodes, bs*8)
	dataBitmapAddr := inodeBitmapAddr + inodeBitmapLen
	dataBitmapLen := ceilDiv(numData, bs*8)
	inodeRegionAddr := dataBitmapAddr + dataBitmapLen
	inodeRegionLen := ceilDiv(numInodes, InodesPerBlock)
	dataRegionAddr := inodeRegionAddr + inodeRegionLen

	if dev.NumBlocks() < int(dataRegionAddr+numData) {
		return Wrap(ErrInsufficientSpace, "device has %d blocks, layout needs %d", dev.NumBlocks(), dataRegionAddr+numData)
	}

	sb := SuperBlock{
		InodeBitmapAddr: inodeBitmapAddr,
		InodeBitmapLen:  inodeBitmapLen,
		DataBitmapAddr:  dataBitmapAddr,
		DataBitmapLen:   dataBitmapLen,
		InodeRegionAddr: inodeRegionAddr,
		InodeRegionLen:  inodeRegionLen,
		DataRegionAddr:  dataRegionAddr,
		NumInodes:       numInodes,
		NumData:         numData,
	}

	bmIn := make(Bitmap, inodeBitmapLen*bs)
	bmBl := make(Bitmap, dataBitmapLen*bs)
	bmIn.Set(RootInum)
	bmBl.Set(0)

	inodes := make([]Inode, numInodes)
	for i := range inodes {
		for j := range inodes[i].Direct {
			inodes[i].Direct[j] = NilPtr
		}
	}
	inodes[RootInum] = Inode{
		Type: InodeDirectory,
		Size: 2 * DirEntrySize,
	}
	inodes[RootInum].Direct[0] = sb.DataBlockNum(0)
	for j := 1; j < DirectPtrs; j++ {
		inodes[RootInum].Direct[j] = NilPtr
	}

	rootBlock := encodeDirBlock([]DirEntry{
		NewDirEntry(".", RootInum),
		NewDirEntry("..", RootInum),
	})

	if err := dev.BeginTransaction(); err != nil {
		return Wrap(ErrIO, "begin transaction: %v", err)
	}
	if err := writeSuperBlock(dev, sb); err != nil {
		return err
	}
	if err := writeBitmapRegion(dev, sb.InodeBitmapAddr, sb.InodeBitmapLen, bmIn); err != nil {
		return err
	}
	if err := writeBitmapRegion(dev, sb.DataBitmapAddr, sb.DataBitmapLen, bmBl); err != nil {
		return err
	}
	if err := writeInodeRegion(dev, sb, inodes); err != nil {
		return err
	}
	if err := dev.WriteBlock(int(sb.DataBlockNum(0)), rootBlock); err != nil {
		return Wrap(ErrIO, "writing root directory block: %v", err)
	}
	if err := dev.Commit(); err != nil {
		return Wrap(ErrIO, "commit: %v", err)
	}
	return nil
}
