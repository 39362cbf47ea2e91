// Command ds3ls walks a UFS image depth-first from the root, printing
// each directory's entries sorted by name, the Go-native successor to
// the ds3 lab's ds3ls.cpp utility.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

var rootCmd = &cobra.Command{
	Use:   "ds3ls diskImageFile",
	Short: "Recursively list a UFS image's namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	dev, err := block.OpenFileDevice(args[0], ufs.BlockSize)
	if err != nil {
		return err
	}
	fs := ufs.New(dev)
	printDir(fs, ufs.RootInum, "/")
	return nil
}

func printDir(fs *ufs.FileSystem, inum int32, path string) {
	fmt.Println("Directory " + path)

	ino, err := fs.Stat(inum)
	if err != nil {
		return
	}

	buf := make([]byte, ino.Size)
	if _, err := fs.Read(inum, buf, ino.Size); err != nil {
		return
	}

	entries := make([]ufs.DirEntry, 0, ino.Size/ufs.DirEntrySize)
	for i := int32(0); i < ino.Size/ufs.DirEntrySize; i++ {
		e, err := ufs.DecodeRawEntry(buf[i*ufs.DirEntrySize : (i+1)*ufs.DirEntrySize])
		if err != nil {
			return
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].NameString() < entries[j].NameString() })

	for _, e := range entries {
		fmt.Printf("%d\t%s\n", e.Inum, e.NameString())
	}
	fmt.Println()

	for _, e := range entries {
		name := e.NameString()
		if name == "." || name == ".." {
			continue
		}
		childInode, err := fs.Stat(e.Inum)
		if err != nil {
			continue
		}
		if childInode.Type == ufs.InodeDirectory {
			printDir(fs, e.Inum, path+name+"/")
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ds3ls: %v\n", err)
		os.Exit(1)
	}
}
