package geom

import "math"

// Rect is an axis-aligned rectangle in pixel coordinates with
// (X1, Y1) the min corner and (X2, Y2) the max corner.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// NewRect constructs a rectangle, ordering the corners so that
// X1 <= X2 and Y1 <= Y2.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Area returns the rectangle area, treating inverted extents as zero.
func (r Rect) Area() float64 {
	return math.Max(0, r.Width()) * math.Max(0, r.Height())
}

// Contains reports whether the point (x, y) lies inside the rectangle,
// borders included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// IoU computes the Intersection-over-Union of two axis-aligned rectangles.
// Non-overlapping rectangles score 0; a zero-area union also scores 0, so the
// function never divides by zero. The result is always within [0, 1].
func IoU(a, b Rect) float64 {
	ix1 := math.Max(a.X1, b.X1)
	iy1 := math.Max(a.Y1, b.Y1)
	ix2 := math.Min(a.X2, b.X2)
	iy2 := math.Min(a.Y2, b.Y2)

	inter := math.Max(0, ix2-ix1) * math.Max(0, iy2-iy1)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// YoloToPixels denormalizes a center-format box (fractions of the image
// dimensions) into pixel-space corner coordinates. No clamping is applied;
// callers clamp on write.
func YoloToPixels(cx, cy, w, h float64, imgW, imgH int) (x1, y1, x2, y2 float64) {
	pcx := cx * float64(imgW)
	pcy := cy * float64(imgH)
	halfW := w * float64(imgW) / 2
	halfH := h * float64(imgH) / 2
	return pcx - halfW, pcy - halfH, pcx + halfW, pcy + halfH
}

// PixelsToYolo converts pixel-space corner coordinates into the normalized
// center format. Width and height are floored to a minimum of one pixel
// before normalizing, so the result is always strictly positive and
// representable. Boxes narrower than one pixel therefore do not round-trip
// exactly; they come back exactly one pixel wide.
func PixelsToYolo(x1, y1, x2, y2 float64, imgW, imgH int) (cx, cy, w, h float64) {
	bw := math.Max(1, x2-x1)
	bh := math.Max(1, y2-y1)
	pcx := x1 + bw/2
	pcy := y1 + bh/2
	return pcx / float64(imgW), pcy / float64(imgH), bw / float64(imgW), bh / float64(imgH)
}

// Clamp01 limits v to the [0, 1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
