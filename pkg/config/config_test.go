package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "uploader.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploader.toml")
	content := `
language = "pt-br"
threads = 5
journal_path = "/var/lib/uploads.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pt-br", cfg.Language)
	assert.Equal(t, 5, cfg.Threads)
	assert.Equal(t, "/var/lib/uploads.db", cfg.JournalPath)
	// untouched keys keep their defaults
	assert.Equal(t, "chapters", cfg.ChaptersDir)
	assert.Equal(t, "cookies.txt", cfg.CookiesFile)
	assert.Equal(t, "failed.txt", cfg.FailedFile)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploader.toml")
	require.NoError(t, os.WriteFile(path, []byte("language = [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
