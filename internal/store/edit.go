package store

import (
	"fmt"

	"github.com/yolokit/yolokit/internal/box"
)

// Corner identifies a resize handle by its position on the box.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// String returns the canonical name of the corner.
func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomRight:
		return "bottom_right"
	case BottomLeft:
		return "bottom_left"
	default:
		return fmt.Sprintf("Corner(%d)", int(c))
	}
}

// ParseCorner converts a canonical corner name back to a Corner.
func ParseCorner(name string) (Corner, error) {
	switch name {
	case "top_left":
		return TopLeft, nil
	case "top_right":
		return TopRight, nil
	case "bottom_right":
		return BottomRight, nil
	case "bottom_left":
		return BottomLeft, nil
	default:
		return 0, fmt.Errorf("unknown corner %q", name)
	}
}

// minSeparation is the smallest allowed distance between opposite corners
// during an interactive resize, so a box can never invert.
const minSeparation = 1.0

// ClampToImage moves the box fully inside [0,imgW]x[0,imgH]. The box slides
// rather than shrinks when only one edge is out of bounds, preserving its
// size; it shrinks only when larger than the image itself.
func ClampToImage(b *box.Box, imgW, imgH int) {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	fw, fh := float64(imgW), float64(imgH)

	if b.X1 < 0 {
		b.X1 = 0
		b.X2 = w
	}
	if b.Y1 < 0 {
		b.Y1 = 0
		b.Y2 = h
	}
	if b.X2 > fw {
		b.X2 = fw
		b.X1 = fw - w
	}
	if b.Y2 > fh {
		b.Y2 = fh
		b.Y1 = fh - h
	}
	// A box larger than the image cannot slide into place; pin the min edge.
	if b.X1 < 0 {
		b.X1 = 0
	}
	if b.Y1 < 0 {
		b.Y1 = 0
	}
}

// MoveBy translates the box by (dx, dy) in image pixels, then clamps it back
// inside the image.
func MoveBy(b *box.Box, dx, dy float64, imgW, imgH int) {
	b.X1 += dx
	b.Y1 += dy
	b.X2 += dx
	b.Y2 += dy
	ClampToImage(b, imgW, imgH)
}

// ResizeCorner drags one corner of the box to the image-space point (x, y).
// The two free coordinates are re-derived relative to the anchored opposite
// corner, with at least one unit of separation so the box never inverts. The
// point is clamped into the image before it is applied.
func ResizeCorner(b *box.Box, corner Corner, x, y float64, imgW, imgH int) {
	x = clampF(x, 0, float64(imgW))
	y = clampF(y, 0, float64(imgH))

	switch corner {
	case TopLeft:
		b.X1 = minF(x, b.X2-minSeparation)
		b.Y1 = minF(y, b.Y2-minSeparation)
	case TopRight:
		b.X2 = maxF(x, b.X1+minSeparation)
		b.Y1 = minF(y, b.Y2-minSeparation)
	case BottomRight:
		b.X2 = maxF(x, b.X1+minSeparation)
		b.Y2 = maxF(y, b.Y1+minSeparation)
	case BottomLeft:
		b.X1 = minF(x, b.X2-minSeparation)
		b.Y2 = maxF(y, b.Y1+minSeparation)
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
