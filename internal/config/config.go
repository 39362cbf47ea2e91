// Package config loads ufsd's daemon configuration using Viper, the
// same way go-apfs's DMGConfig does it: a named config file searched
// across a few conventional paths, environment overrides under a
// prefix, and defaults for everything so a missing file is never fatal.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the settings ufsd needs to serve an HTTP gateway over a
// UFS image.
type Config struct {
	ImagePath   string `mapstructure:"image_path"`
	ListenAddr  string `mapstructure:"listen_addr"`
	URLPrefix   string `mapstructure:"url_prefix"`
	MaxReadSize int32  `mapstructure:"max_read_size"`
}

// Load reads ufsd.yaml from the conventional search paths, falling back
// to defaults for anything absent, with UFSD_-prefixed environment
// variables taking precedence over the file.
func Load() (*Config, error) {
	viper.SetConfigName("ufsd")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.ufsd")
	viper.AddConfigPath("/etc/ufsd")

	viper.SetDefault("image_path", "ufs.img")
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("url_prefix", "/ds3")
	viper.SetDefault("max_read_size", 10*1024*1024)

	viper.SetEnvPrefix("UFSD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling config: %w", err)
	}
	return &cfg, nil
}
