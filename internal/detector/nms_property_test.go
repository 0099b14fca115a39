package detector

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/yolokit/yolokit/internal/geom"
)

func genDetections() gopter.Gen {
	genOne := gopter.CombineGens(
		gen.IntRange(0, 3),
		gen.Float64Range(0.01, 1.0),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 500),
		gen.Float64Range(1, 100),
		gen.Float64Range(1, 100),
	).Map(func(vals []interface{}) Detection {
		x := vals[2].(float64)
		y := vals[3].(float64)
		return Detection{
			Class:      vals[0].(int),
			Confidence: vals[1].(float64),
			Box:        geom.NewRect(x, y, x+vals[4].(float64), y+vals[5].(float64)),
		}
	})
	return gen.SliceOf(genOne)
}

func TestNMSProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const threshold = 0.45

	properties.Property("kept detections are a subset of the input", prop.ForAll(
		func(dets []Detection) bool {
			kept := NonMaxSuppression(dets, threshold)
			if len(kept) > len(dets) {
				return false
			}
			for _, k := range kept {
				found := false
				for _, d := range dets {
					if d == k {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		},
		genDetections(),
	))

	properties.Property("no two kept detections of one class overlap above the threshold", prop.ForAll(
		func(dets []Detection) bool {
			kept := NonMaxSuppression(dets, threshold)
			for i := range kept {
				for j := i + 1; j < len(kept); j++ {
					if kept[i].Class != kept[j].Class {
						continue
					}
					if geom.IoU(kept[i].Box, kept[j].Box) > threshold {
						return false
					}
				}
			}
			return true
		},
		genDetections(),
	))

	properties.Property("suppression is idempotent", prop.ForAll(
		func(dets []Detection) bool {
			once := NonMaxSuppression(dets, threshold)
			twice := NonMaxSuppression(once, threshold)
			return len(once) == len(twice)
		},
		genDetections(),
	))

	properties.TestingRun(t)
}
