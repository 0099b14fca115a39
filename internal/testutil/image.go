package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
	LargeSize  = ImageSize{1024, 768}
)

// SceneRect places one filled rectangle into a synthetic scene.
type SceneRect struct {
	X, Y, W, H int
	Color      color.Color
}

// SceneCircle places one filled circle into a synthetic scene.
type SceneCircle struct {
	CX, CY, R int
	Color     color.Color
}

// SceneConfig describes a synthetic scene of solid shapes on a flat
// background. Scenes like this give the shape finders and the detector
// pre/post-processing something with known ground truth.
type SceneConfig struct {
	Size       ImageSize
	Background color.Color
	Rects      []SceneRect
	Circles    []SceneCircle
}

// DefaultSceneConfig returns a white medium-size scene with no shapes.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Size:       MediumSize,
		Background: color.White,
	}
}

// GenerateScene renders the configured shapes onto a flat background.
func GenerateScene(config SceneConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, config.Size.Width, config.Size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	for _, r := range config.Rects {
		FillRect(img, r.X, r.Y, r.W, r.H, r.Color)
	}
	for _, c := range config.Circles {
		FillCircle(img, c.CX, c.CY, c.R, c.Color)
	}
	return img
}

// FillRect paints a filled axis-aligned rectangle, clipped to the image.
func FillRect(img *image.RGBA, x, y, w, h int, col color.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	draw.Draw(img, r, &image.Uniform{col}, image.Point{}, draw.Src)
}

// FillCircle paints a filled circle, clipped to the image.
func FillCircle(img *image.RGBA, cx, cy, radius int, col color.Color) {
	bounds := img.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if !(image.Point{x, y}).In(bounds) {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, col)
			}
		}
	}
}

// SaveImage writes img as a PNG at path, creating parent directories.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)))

	f, err := os.Create(path) //nolint:gosec // test-controlled path
	require.NoError(t, err, "create %s", path)
	defer func() { require.NoError(t, f.Close()) }()

	require.NoError(t, png.Encode(f, img), "encode %s", path)
}

// LoadImage reads and decodes the image at path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // test-controlled path
	require.NoError(t, err, "open %s", path)
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	require.NoError(t, err, "decode %s", path)
	return img
}

// CreateTestImage creates a flat single-color image.
func CreateTestImage(width, height int, bg color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return img
}
