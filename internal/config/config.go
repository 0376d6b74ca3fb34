// Package config loads the optional ytgrab config file and environment
// overrides. All values have defaults; a missing config file is not an error.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/elyasbromand/ytgrab"
	"github.com/elyasbromand/ytgrab/internal/backend"
	"github.com/elyasbromand/ytgrab/internal/history"
)

type Config struct {
	// Backend is the executable name or path of the extraction tool.
	Backend string `mapstructure:"backend"`
	// DestDir is the default destination directory.
	DestDir string `mapstructure:"dest_dir"`
	// Quality is the default quality selector name.
	Quality string `mapstructure:"quality"`
	// Strategy is the default download strategy name.
	Strategy string `mapstructure:"strategy"`
	// ArchiveFilename is the skip-completed persistence file name, relative
	// to the destination directory.
	ArchiveFilename string `mapstructure:"archive_filename"`
	// HistoryFilename is the run-history database name, relative to the
	// destination directory.
	HistoryFilename string `mapstructure:"history_filename"`
}

// Load reads ytgrab.yaml from the working directory or ~/.config/ytgrab,
// applying YTGRAB_* environment overrides on top of the defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("ytgrab")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/ytgrab")

	v.SetDefault("backend", backend.DefaultBinary)
	v.SetDefault("dest_dir", ".")
	v.SetDefault("quality", string(ytgrab.BestProgressive))
	v.SetDefault("strategy", string(ytgrab.StrategyStandard))
	v.SetDefault("archive_filename", ytgrab.DefaultArchiveFilename)
	v.SetDefault("history_filename", history.DefaultFilename)

	v.SetEnvPrefix("YTGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config unmarshal error: %w", err)
	}
	return cfg, nil
}
