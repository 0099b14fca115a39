// Package shapes finds simple geometric regions in an image and proposes
// their bounding boxes as labeling candidates. The finders are classic
// pixel-level pipelines: Canny edges plus contour approximation for polygons,
// a Hough transform for circles, and an excess-green mask for vegetation.
package shapes

import (
	"image"
	"sort"

	"github.com/yolokit/yolokit/internal/box"
	"github.com/yolokit/yolokit/internal/geom"
)

// Params tunes the shape finders. Zero values are replaced with the
// corresponding defaults from DefaultParams.
type Params struct {
	// Canny hysteresis thresholds, 0-255.
	CannyLow  int
	CannyHigh int
	// ApproxEps is the Douglas-Peucker tolerance as a fraction of the
	// contour perimeter.
	ApproxEps float64
	// MinArea filters candidate bounding boxes below this pixel area.
	MinArea int
	// PolyN is the vertex count FindPolygons looks for.
	PolyN int
	// Hough circle parameters.
	MinRadius int
	MaxRadius int
	MinDist   int
	// GreenThreshold is the minimum G - max(R, B) excess, 0-255.
	GreenThreshold int
}

// DefaultParams returns the tuning that works for clean scenes.
func DefaultParams() Params {
	return Params{
		CannyLow:       50,
		CannyHigh:      150,
		ApproxEps:      0.02,
		MinArea:        100,
		PolyN:          5,
		MinRadius:      10,
		MaxRadius:      80,
		MinDist:        20,
		GreenThreshold: 50,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.CannyLow <= 0 {
		p.CannyLow = d.CannyLow
	}
	if p.CannyHigh <= 0 {
		p.CannyHigh = d.CannyHigh
	}
	if p.ApproxEps <= 0 {
		p.ApproxEps = d.ApproxEps
	}
	if p.MinArea <= 0 {
		p.MinArea = d.MinArea
	}
	if p.PolyN <= 0 {
		p.PolyN = d.PolyN
	}
	if p.MinRadius <= 0 {
		p.MinRadius = d.MinRadius
	}
	if p.MaxRadius <= 0 {
		p.MaxRadius = d.MaxRadius
	}
	if p.MinDist <= 0 {
		p.MinDist = d.MinDist
	}
	if p.GreenThreshold <= 0 {
		p.GreenThreshold = d.GreenThreshold
	}
	return p
}

// Candidate is one proposed region: its axis-aligned bounding box in image
// pixels, the vertex count of the approximated outline (0 for circles and
// mask regions) and a rough quality score.
type Candidate struct {
	Rect       geom.Rect
	Vertices   int
	Confidence float64
}

// Boxes converts candidates into annotation boxes of the given class.
func Boxes(cands []Candidate, class int) []*box.Box {
	out := make([]*box.Box, len(cands))
	for i, c := range cands {
		out[i] = box.New(class, c.Rect.X1, c.Rect.Y1, c.Rect.X2, c.Rect.Y2)
	}
	return out
}

// FindRectangles returns the bounding boxes of convex four-sided contours.
func FindRectangles(img image.Image, p Params) []Candidate {
	p = p.withDefaults()
	return findNGons(img, p, 4, p.ApproxEps, p.MinArea)
}

// FindTriangles returns the bounding boxes of three-sided contours. The
// looser tolerance matches how ragged triangle outlines approximate.
func FindTriangles(img image.Image, p Params) []Candidate {
	p = p.withDefaults()
	return findNGons(img, p, 3, 0.04, 50)
}

// FindPolygons returns the bounding boxes of convex contours with exactly
// Params.PolyN vertices.
func FindPolygons(img image.Image, p Params) []Candidate {
	p = p.withDefaults()
	return findNGons(img, p, p.PolyN, p.ApproxEps, p.MinArea)
}

// findNGons runs the shared edge-contour-approximate pipeline and keeps the
// contours whose simplified convex outline has exactly n vertices.
func findNGons(img image.Image, p Params, n int, eps float64, minArea int) []Candidate {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	edges := cannyEdges(img, p.CannyLow, p.CannyHigh)
	contours := findContours(edges, width, height)

	var out []Candidate
	for _, contour := range contours {
		poly := approxContour(contour, eps)
		if len(poly) != n {
			continue
		}
		r := polyBounds(poly)
		if int(r.Area()) < minArea {
			continue
		}
		out = append(out, Candidate{
			Rect:       r,
			Vertices:   n,
			Confidence: rectangularity(contour, r),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rect.Area() > out[j].Rect.Area() })
	return out
}

// rectangularity compares contour length to the bounding-box perimeter. A
// clean axis-aligned outline scores near 1.
func rectangularity(contour []point, r geom.Rect) float64 {
	perimeter := 2 * (r.Width() + r.Height())
	if perimeter <= 0 {
		return 0
	}
	score := 1 - abs(float64(len(contour))-perimeter)/perimeter
	if score < 0 {
		return 0
	}
	return score
}

func polyBounds(poly []point) geom.Rect {
	minX, minY := poly[0].x, poly[0].y
	maxX, maxY := poly[0].x, poly[0].y
	for _, pt := range poly[1:] {
		if pt.x < minX {
			minX = pt.x
		}
		if pt.x > maxX {
			maxX = pt.x
		}
		if pt.y < minY {
			minY = pt.y
		}
		if pt.y > maxY {
			maxY = pt.y
		}
	}
	return geom.NewRect(minX, minY, maxX, maxY)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
