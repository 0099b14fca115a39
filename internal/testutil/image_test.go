package testutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSceneSize(t *testing.T) {
	config := DefaultSceneConfig()
	config.Size = SmallSize

	img := GenerateScene(config)
	bounds := img.Bounds()
	assert.Equal(t, SmallSize.Width, bounds.Dx())
	assert.Equal(t, SmallSize.Height, bounds.Dy())
}

func TestGenerateSceneShapes(t *testing.T) {
	config := DefaultSceneConfig()
	config.Size = SmallSize
	config.Rects = []SceneRect{{X: 10, Y: 10, W: 50, H: 40, Color: color.Black}}
	config.Circles = []SceneCircle{{CX: 200, CY: 100, R: 30, Color: color.RGBA{255, 0, 0, 255}}}

	img := GenerateScene(config)

	// Inside the rectangle.
	r, g, b, _ := img.At(30, 30).RGBA()
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)

	// Center of the circle.
	r, g, b, _ = img.At(200, 100).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)

	// Background stays white.
	r, g, b, _ = img.At(300, 200).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestFillShapesClipToBounds(t *testing.T) {
	config := DefaultSceneConfig()
	config.Size = ImageSize{100, 100}

	img := GenerateScene(config)
	FillRect(img, 80, 80, 50, 50, color.Black)
	FillCircle(img, 0, 0, 30, color.Black)

	// No panic and the edges got painted.
	r, _, _, _ := img.At(99, 99).RGBA()
	assert.Zero(t, r)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Zero(t, r)
}

func TestSaveAndLoadImage(t *testing.T) {
	img := GenerateScene(DefaultSceneConfig())

	imagePath := t.TempDir() + "/scene.png"
	SaveImage(t, img, imagePath)
	assert.True(t, FileExists(imagePath))

	loaded := LoadImage(t, imagePath)
	assert.Equal(t, img.Bounds(), loaded.Bounds())
}

func TestCreateTestImage(t *testing.T) {
	img := CreateTestImage(64, 48, color.White)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}
