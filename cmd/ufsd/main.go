// Command ufsd serves a UFS image's namespace over HTTP and formats
// fresh images, following the same cobra command-tree shape go-apfs
// uses for its disk-exploration CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ufsd",
	Short: "Serve and format UFS disk images",
	Long: `ufsd mounts a flat-file UFS disk image and exposes its namespace
as a URL tree over HTTP, or formats a fresh image ready for mounting.`,
}

func init() {
	rootCmd.AddCommand(serveCmd, mkfsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ufsd: %v\n", err)
		os.Exit(1)
	}
}
