package detector

import (
	"sort"

	"github.com/yolokit/yolokit/internal/geom"
)

// NonMaxSuppression performs class-wise greedy NMS: for each class,
// detections are taken in confidence order and any lower-confidence
// detection overlapping a kept one above iouThreshold is suppressed.
func NonMaxSuppression(detections []Detection, iouThreshold float64) []Detection {
	if len(detections) <= 1 {
		return detections
	}

	byClass := map[int][]Detection{}
	for _, d := range detections {
		byClass[d.Class] = append(byClass[d.Class], d)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	var kept []Detection
	for _, c := range classes {
		kept = append(kept, suppressClass(byClass[c], iouThreshold)...)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Confidence > kept[j].Confidence })
	return kept
}

func suppressClass(detections []Detection, iouThreshold float64) []Detection {
	sort.Slice(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})

	suppressed := make([]bool, len(detections))
	kept := make([]Detection, 0, len(detections))
	for i, d := range detections {
		if suppressed[i] {
			continue
		}
		kept = append(kept, d)
		for j := i + 1; j < len(detections); j++ {
			if suppressed[j] {
				continue
			}
			if geom.IoU(d.Box, detections[j].Box) > iouThreshold {
				suppressed[j] = true
			}
		}
	}
	return kept
}
