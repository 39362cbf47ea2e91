package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/config"
	"github.com/isostack/distributed-file-system/internal/gateway"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a mounted UFS image's namespace over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dev, err := block.OpenFileDevice(cfg.ImagePath, ufs.BlockSize)
	if err != nil {
		return fmt.Errorf("mounting %s: %w", cfg.ImagePath, err)
	}
	fs := ufs.New(dev)

	reg := gateway.NewRegistry()
	gw := gateway.New(fs, reg, cfg.URLPrefix, cfg.MaxReadSize)
	log.Printf("ufsd: serving %s on %s under %s", cfg.ImagePath, cfg.ListenAddr, cfg.URLPrefix)
	return http.ListenAndServe(cfg.ListenAddr, gw.Mux())
}
