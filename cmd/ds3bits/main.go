// Command ds3bits prints a UFS image's superblock and both bitmaps,
// the Go-native successor to the ds3 lab's ds3bits.cpp utility.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

var asJSON bool

var rootCmd = &cobra.Command{
	Use:   "ds3bits diskImageFile",
	Short: "Print a UFS image's superblock and bitmaps",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON instead of the plain-text dump")
}

func run(cmd *cobra.Command, args []string) error {
	dev, err := block.OpenFileDevice(args[0], ufs.BlockSize)
	if err != nil {
		return err
	}
	fs := ufs.New(dev)

	sb, err := fs.SuperBlock()
	if err != nil {
		return err
	}
	inodeBitmap, err := fs.InodeBitmap()
	if err != nil {
		return err
	}
	dataBitmap, err := fs.DataBitmap()
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"inode_region_addr": sb.InodeRegionAddr,
			"data_region_addr":  sb.DataRegionAddr,
			"inode_bitmap":      inodeBitmap,
			"data_bitmap":       dataBitmap,
		})
	}

	fmt.Println("Super")
	fmt.Println("inode_region_addr", sb.InodeRegionAddr)
	fmt.Println("data_region_addr", sb.DataRegionAddr)
	fmt.Println()

	fmt.Println("Inode bitmap")
	fmt.Println(decimalDump(inodeBitmap))
	fmt.Println()

	fmt.Println("Data bitmap")
	fmt.Println(decimalDump(dataBitmap))

	return nil
}

func decimalDump(bm ufs.Bitmap) string {
	parts := make([]string, len(bm))
	for i, b := range bm {
		parts[i] = fmt.Sprint(int(b))
	}
	return strings.Join(parts, " ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ds3bits: %v\n", err)
		os.Exit(1)
	}
}
