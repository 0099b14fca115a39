package dataset

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for the supported extensions
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// SupportedImageExtensions lists the image file extensions a dataset folder
// may contain.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ImageSize decodes only the header of an image file and returns its pixel
// dimensions.
func ImageSize(path string) (w, h int, err error) {
	f, err := os.Open(path) //nolint:gosec // G304: dataset image paths come from folder discovery
	if err != nil {
		return 0, 0, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}

// LoadImage opens and fully decodes an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: dataset image paths come from folder discovery
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
