package detector

import (
	"fmt"

	"github.com/yolokit/yolokit/internal/geom"
)

// Detection is one decoded model output in original image coordinates.
type Detection struct {
	Box        geom.Rect
	Class      int
	Confidence float64
}

// yoloAttrsMin is the smallest valid row width: 4 box values, objectness,
// and at least one class score.
const yoloAttrsMin = 6

// decodePredictions turns the raw model output into detections above the
// confidence threshold, mapped back through the letterbox into original
// image coordinates and clamped to the image.
//
// The output layout is the YOLO row format: each row holds
// [cx, cy, w, h, objectness, class scores...] in model-input pixels, with
// row confidence = objectness * best class score.
func decodePredictions(data []float32, rows, attrs int, lb Letterbox, confThreshold float64) ([]Detection, error) {
	if attrs < yoloAttrsMin {
		return nil, fmt.Errorf("expected at least %d attributes per row, got %d", yoloAttrsMin, attrs)
	}
	if len(data) < rows*attrs {
		return nil, fmt.Errorf("output buffer too small: need %d values, got %d", rows*attrs, len(data))
	}

	var detections []Detection
	for i := 0; i < rows; i++ {
		row := data[i*attrs : (i+1)*attrs]
		obj := float64(row[4])
		if obj <= 0 {
			continue
		}

		bestClass := 0
		bestScore := float64(row[5])
		for c := 6; c < attrs; c++ {
			if s := float64(row[c]); s > bestScore {
				bestScore = s
				bestClass = c - 5
			}
		}

		conf := obj * bestScore
		if conf < confThreshold {
			continue
		}

		cx, cy := float64(row[0]), float64(row[1])
		w, h := float64(row[2]), float64(row[3])

		x1, y1 := lb.ToImage(cx-w/2, cy-h/2)
		x2, y2 := lb.ToImage(cx+w/2, cy+h/2)

		x1 = clampF(x1, 0, float64(lb.SrcW))
		y1 = clampF(y1, 0, float64(lb.SrcH))
		x2 = clampF(x2, 0, float64(lb.SrcW))
		y2 = clampF(y2, 0, float64(lb.SrcH))
		if x2-x1 < 1 || y2-y1 < 1 {
			continue
		}

		detections = append(detections, Detection{
			Box:        geom.NewRect(x1, y1, x2, y2),
			Class:      bestClass,
			Confidence: conf,
		})
	}
	return detections, nil
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
