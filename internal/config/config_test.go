package config

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	assert := assert_.New(t)

	cfg, err := Load()
	assert.NoError(err)
	assert.Equal("yt-dlp", cfg.Backend)
	assert.Equal(".", cfg.DestDir)
	assert.Equal("best", cfg.Quality)
	assert.Equal("standard", cfg.Strategy)
	assert.Equal("downloaded.txt", cfg.ArchiveFilename)
	assert.NotEmpty(cfg.HistoryFilename)
}

func TestLoadEnvOverride(t *testing.T) {
	assert := assert_.New(t)

	t.Setenv("YTGRAB_STRATEGY", "aggressive")
	cfg, err := Load()
	assert.NoError(err)
	assert.Equal("aggressive", cfg.Strategy)
}
