package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/darwin256/comick-uploader/pkg/data"
)

var (
	// ErrDirectoryNotFound means the scan root does not exist or is not a directory.
	ErrDirectoryNotFound = errors.New("chapters directory not found")
	// ErrNoChapters means the scan root contains no valid chapter folders.
	ErrNoChapters = errors.New("no valid chapter folders found")
)

// chapterPattern matches "12", "12.5" and "12 - Some Title".
var chapterPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(\s*-\s*(.+))?$`)

var supportedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".heic": true,
}

// Result is the outcome of scanning a chapters directory.
type Result struct {
	// Chapters maps folder key to the scanned chapter.
	Chapters map[string]*data.Chapter
	// Keys holds the chapter keys in natural-sort order.
	Keys []string
	// Skipped lists qualifying folders that held no supported images.
	Skipped []string
}

// Scan discovers chapter folders under root. A folder qualifies when its
// name has a numeric head with an optional decimal fraction and an optional
// " - title" suffix. Pages are the folder's files with a supported image
// extension, ordered by natural sort. Qualifying folders without any
// supported image are reported in Skipped, not treated as an error.
func Scan(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	dirs := make(map[string]bool, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
		dirs[entry.Name()] = entry.IsDir()
	}
	Sort(names)

	result := &Result{Chapters: make(map[string]*data.Chapter)}
	for _, name := range names {
		match := chapterPattern.FindStringSubmatch(name)
		if match == nil || !dirs[name] {
			continue
		}

		pages, err := collectPages(filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if len(pages) == 0 {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		result.Chapters[name] = &data.Chapter{
			Key:    name,
			Number: match[1],
			Title:  strings.TrimSpace(match[3]),
			Pages:  pages,
		}
		result.Keys = append(result.Keys, name)
	}

	if len(result.Chapters) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChapters, root)
	}
	return result, nil
}

func collectPages(dir string) ([]data.Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	Sort(names)

	pages := make([]data.Page, len(names))
	for i, name := range names {
		pages[i] = data.Page{Path: filepath.Join(dir, name), Index: i}
	}
	return pages, nil
}
