// Command ds3cat prints one inode's direct block numbers and its data,
// the Go-native successor to the ds3 lab's ds3cat.cpp utility.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

var rootCmd = &cobra.Command{
	Use:   "ds3cat diskImageFile inodeNumber",
	Short: "Print an inode's direct blocks and data",
	Args:  cobra.ExactArgs(2),
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	inodeNumber, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid inode number %q: %w", args[1], err)
	}

	dev, err := block.OpenFileDevice(args[0], ufs.BlockSize)
	if err != nil {
		return err
	}
	fs := ufs.New(dev)

	ino, err := fs.Stat(int32(inodeNumber))
	if err != nil {
		return err
	}

	numBlocks := (ino.Size + ufs.BlockSize - 1) / ufs.BlockSize

	fmt.Println("File blocks")
	for i := int32(0); i < numBlocks; i++ {
		fmt.Println(ino.Direct[i])
	}
	fmt.Println()

	buf := make([]byte, ino.Size)
	n, err := fs.Read(int32(inodeNumber), buf, ino.Size)
	fmt.Println("File data")
	if err != nil {
		return err
	}
	os.Stdout.Write(buf[:n])

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ds3cat: %v\n", err)
		os.Exit(1)
	}
}
