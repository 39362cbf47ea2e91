package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

var (
	mkfsNumInodes int32
	mkfsNumData   int32
)

var mkfsCmd = &cobra.Command{
	Use:   "mkfs [path]",
	Short: "Create a fresh UFS image with a root directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkfs,
}

func init() {
	mkfsCmd.Flags().Int32Var(&mkfsNumInodes, "inodes", 1024, "number of inodes")
	mkfsCmd.Flags().Int32Var(&mkfsNumData, "data-blocks", 4096, "number of data blocks")
}

func runMkfs(cmd *cobra.Command, args []string) error {
	path := args[0]

	inodeBitmapBlocks := ceilDiv(mkfsNumInodes, int32(ufs.BlockSize)*8)
	dataBitmapBlocks := ceilDiv(mkfsNumData, int32(ufs.BlockSize)*8)
	inodeRegionBlocks := ceilDiv(mkfsNumInodes, ufs.InodesPerBlock)
	totalBlocks := 1 + inodeBitmapBlocks + dataBitmapBlocks + inodeRegionBlocks + mkfsNumData

	dev, err := block.CreateFileDevice(path, ufs.BlockSize, int(totalBlocks))
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := ufs.Format(dev, mkfsNumInodes, mkfsNumData); err != nil {
		return fmt.Errorf("formatting image: %w", err)
	}

	fmt.Printf("ufsd: created %s (%d inodes, %d data blocks, %d total blocks)\n", path, mkfsNumInodes, mkfsNumData, totalBlocks)
	return nil
}

func ceilDiv(a, b int32) int32 {
	return (a + b - 1) / b
}
