package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiscoverImages lists the supported image files directly inside dir, sorted
// by name so navigation order is stable across reloads.
func DiscoverImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsSupportedImage(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
