package shapes

import (
	"image"

	"github.com/yolokit/yolokit/internal/geom"
)

// ExcessGreen returns the bounding box of the region where the green channel
// dominates: G - max(R, B) > threshold on the 0-255 scale. The mask is
// dilated with a 3x3 window first to close single-pixel speckles. The second
// return is false when no pixel passes the threshold.
func ExcessGreen(img image.Image, threshold int) (geom.Rect, bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return geom.Rect{}, false
	}

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			r8, g8, b8 := int(r>>8), int(g>>8), int(b>>8)
			mv := r8
			if b8 > mv {
				mv = b8
			}
			if g8-mv > threshold {
				mask[y][x] = true
			}
		}
	}

	dilated := dilate3x3(mask, width, height)

	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !dilated[y][x] {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return geom.Rect{}, false
	}
	return geom.NewRect(float64(minX), float64(minY), float64(maxX+1), float64(maxY+1)), true
}

func dilate3x3(mask [][]bool, width, height int) [][]bool {
	out := make([][]bool, height)
	for y := 0; y < height; y++ {
		out[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			for dy := -1; dy <= 1 && !out[y][x]; dy++ {
				for dx := -1; dx <= 1; dx++ {
					ny, nx := y+dy, x+dx
					if ny >= 0 && ny < height && nx >= 0 && nx < width && mask[ny][nx] {
						out[y][x] = true
						break
					}
				}
			}
		}
	}
	return out
}
