package geom

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRect generates a random non-degenerate rectangle within a 1000x1000 area.
func genRect() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 900),
		gen.Float64Range(0, 900),
		gen.Float64Range(1, 100),
		gen.Float64Range(1, 100),
	).Map(func(vals []interface{}) Rect {
		x, ok := vals[0].(float64)
		if !ok {
			panic("expected float64")
		}
		y, ok := vals[1].(float64)
		if !ok {
			panic("expected float64")
		}
		w, ok := vals[2].(float64)
		if !ok {
			panic("expected float64")
		}
		h, ok := vals[3].(float64)
		if !ok {
			panic("expected float64")
		}
		return NewRect(x, y, x+w, y+h)
	})
}

func TestIoU_SymmetryAndBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("IoU is symmetric and within [0,1]", prop.ForAll(
		func(a, b Rect) bool {
			ab := IoU(a, b)
			ba := IoU(b, a)
			return ab == ba && ab >= 0 && ab <= 1
		},
		genRect(),
		genRect(),
	))

	properties.Property("IoU of a box with itself is 1", prop.ForAll(
		func(a Rect) bool {
			return math.Abs(IoU(a, a)-1) < 1e-9
		},
		genRect(),
	))

	properties.TestingRun(t)
}

func TestRoundTrip_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("boxes at least 1px wide round-trip within 1e-4", prop.ForAll(
		func(r Rect) bool {
			const imgW, imgH = 1024, 1024
			cx, cy, w, h := PixelsToYolo(r.X1, r.Y1, r.X2, r.Y2, imgW, imgH)
			x1, y1, x2, y2 := YoloToPixels(cx, cy, w, h, imgW, imgH)
			return math.Abs(x1-r.X1) < 1e-4 &&
				math.Abs(y1-r.Y1) < 1e-4 &&
				math.Abs(x2-r.X2) < 1e-4 &&
				math.Abs(y2-r.Y2) < 1e-4
		},
		genRect(),
	))

	properties.Property("normalized size is strictly positive for any input", prop.ForAll(
		func(x, y float64) bool {
			_, _, w, h := PixelsToYolo(x, y, x, y, 1024, 1024)
			return w > 0 && h > 0
		},
		gen.Float64Range(0, 1024),
		gen.Float64Range(0, 1024),
	))

	properties.TestingRun(t)
}
