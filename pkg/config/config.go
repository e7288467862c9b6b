// Package config loads the optional uploader.toml file that supplies
// defaults for the upload command's flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds run defaults. Flags override whatever is set here.
type Config struct {
	ChaptersDir   string `toml:"chapters_dir"`
	CookiesFile   string `toml:"cookies_file"`
	Language      string `toml:"language"`
	Threads       int    `toml:"threads"`
	Timer         int    `toml:"timer"`
	FailedFile    string `toml:"failed_file"`
	JournalPath   string `toml:"journal_path"`
	APIBaseURL    string `toml:"api_base_url"`
	UploadBaseURL string `toml:"upload_base_url"`
}

func Default() Config {
	return Config{
		ChaptersDir: "chapters",
		CookiesFile: "cookies.txt",
		Language:    "en",
		Threads:     3,
		Timer:       0,
		FailedFile:  "failed.txt",
		JournalPath: "uploads.db",
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
