package testutil

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ImageFixture describes one image in a dataset fixture together with the
// label-file lines written for it. Labels are raw "class cx cy w h" lines so
// tests can also exercise malformed input.
type ImageFixture struct {
	Name   string
	Size   ImageSize
	Labels []string
	Scene  *SceneConfig
}

// MakeDatasetRoot lays out a labeling dataset under a temp directory:
// images/ with rendered PNGs, labels/ with one .txt per labeled image, and
// the returned root ready for a session to open.
func MakeDatasetRoot(t *testing.T, fixtures ...ImageFixture) string {
	t.Helper()

	root := t.TempDir()
	imagesDir := filepath.Join(root, "images")
	labelsDir := filepath.Join(root, "labels")
	require.NoError(t, EnsureDir(imagesDir))
	require.NoError(t, EnsureDir(labelsDir))

	for _, f := range fixtures {
		scene := f.Scene
		if scene == nil {
			s := DefaultSceneConfig()
			if f.Size.Width > 0 && f.Size.Height > 0 {
				s.Size = f.Size
			}
			scene = &s
		}
		SaveImage(t, GenerateScene(*scene), filepath.Join(imagesDir, f.Name))

		if len(f.Labels) > 0 {
			base := strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ".txt"
			content := strings.Join(f.Labels, "\n") + "\n"
			require.NoError(t, os.WriteFile(filepath.Join(labelsDir, base), []byte(content), 0o600))
		}
	}
	return root
}

// YoloLine formats one normalized label line the way the label files store it.
func YoloLine(class int, cx, cy, w, h float64) string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", class, cx, cy, w, h)
}

// WriteClassesFile writes a classes.yaml with the given ordered names into
// the dataset root.
func WriteClassesFile(t *testing.T, root string, names ...string) {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("names:\n")
	for _, n := range names {
		sb.WriteString("  - " + n + "\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "classes.yaml"), []byte(sb.String()), 0o600))
}

// SolidRectScene is a convenience scene: one dark rectangle on white.
func SolidRectScene(size ImageSize, x, y, w, h int) *SceneConfig {
	return &SceneConfig{
		Size:       size,
		Background: color.White,
		Rects:      []SceneRect{{X: x, Y: y, W: w, H: h, Color: color.RGBA{30, 30, 30, 255}}},
	}
}
