package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover lists the migration files in dir whose names parse as stems.
// Other files and directories are ignored. The result is sorted for Up.
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("migration: read directory %q: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		stem, err := ParseFileName(e.Name())
		if err != nil {
			continue
		}
		files = append(files, File{Path: filepath.Join(dir, e.Name()), Stem: stem})
	}
	Sort(files, Up)
	return files, nil
}
