package detector

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/yolokit/yolokit/internal/mempool"
)

// Letterbox records how an image was fitted into the square model input so
// model-space coordinates can be mapped back to the original image.
type Letterbox struct {
	Scale float64 // applied resize factor
	PadX  float64 // left padding in model pixels
	PadY  float64 // top padding in model pixels
	SrcW  int     // original image width
	SrcH  int     // original image height
}

// ToImage maps a model-space coordinate back into original image space.
func (l Letterbox) ToImage(x, y float64) (float64, float64) {
	return (x - l.PadX) / l.Scale, (y - l.PadY) / l.Scale
}

// letterboxImage scales the image to fit a size x size square while keeping
// its aspect ratio, centered on black padding.
func letterboxImage(img image.Image, size int) (*image.NRGBA, Letterbox) {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	scale := float64(size) / float64(srcW)
	if s := float64(size) / float64(srcH); s < scale {
		scale = s
	}
	newW := int(float64(srcW) * scale)
	newH := int(float64(srcH) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)
	canvas := imaging.New(size, size, color.NRGBA{0, 0, 0, 255})
	padX := (size - newW) / 2
	padY := (size - newH) / 2
	canvas = imaging.Paste(canvas, resized, image.Pt(padX, padY))

	return canvas, Letterbox{
		Scale: scale,
		PadX:  float64(padX),
		PadY:  float64(padY),
		SrcW:  srcW,
		SrcH:  srcH,
	}
}

// normalizeImage converts an image into a NCHW float32 tensor [1, 3, H, W]
// with pixel values scaled to 0-1. The tensor buffer comes from the shared
// pool; the caller must release it with mempool.PutFloat32 once the inference
// call no longer needs it.
func normalizeImage(img image.Image) ([]float32, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tensor := mempool.GetFloat32(3 * height * width)
	for y := range height {
		for x := range width {
			r, g, b, _ := nrgba.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			rIdx := 0*height*width + y*width + x
			gIdx := 1*height*width + y*width + x
			bIdx := 2*height*width + y*width + x

			tensor[rIdx] = float32(r>>8) / 255.0
			tensor[gIdx] = float32(g>>8) / 255.0
			tensor[bIdx] = float32(b>>8) / 255.0
		}
	}
	return tensor, nil
}

// preprocess fits the image into the model input square and produces the
// input tensor together with the letterbox mapping.
func preprocess(img image.Image, size int) ([]float32, Letterbox, error) {
	boxed, lb := letterboxImage(img, size)
	data, err := normalizeImage(boxed)
	if err != nil {
		return nil, Letterbox{}, err
	}
	return data, lb, nil
}
