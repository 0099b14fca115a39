package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolokit/yolokit/internal/geom"
)

func det(class int, conf float64, x1, y1, x2, y2 float64) Detection {
	return Detection{Box: geom.NewRect(x1, y1, x2, y2), Class: class, Confidence: conf}
}

func TestNMSSuppressesOverlaps(t *testing.T) {
	dets := []Detection{
		det(0, 0.9, 10, 10, 50, 50),
		det(0, 0.8, 12, 12, 52, 52),
		det(0, 0.7, 100, 100, 140, 140),
	}
	kept := NonMaxSuppression(dets, 0.45)
	require.Len(t, kept, 2)
	assert.InDelta(t, 0.9, kept[0].Confidence, 1e-9)
	assert.InDelta(t, 0.7, kept[1].Confidence, 1e-9)
}

func TestNMSKeepsSeparateClasses(t *testing.T) {
	dets := []Detection{
		det(0, 0.9, 10, 10, 50, 50),
		det(1, 0.8, 10, 10, 50, 50),
	}
	kept := NonMaxSuppression(dets, 0.45)
	assert.Len(t, kept, 2)
}

func TestNMSEmptyAndSingle(t *testing.T) {
	assert.Empty(t, NonMaxSuppression(nil, 0.45))

	one := []Detection{det(0, 0.9, 10, 10, 50, 50)}
	assert.Len(t, NonMaxSuppression(one, 0.45), 1)
}

func TestNMSSortsByConfidence(t *testing.T) {
	dets := []Detection{
		det(1, 0.5, 100, 100, 140, 140),
		det(0, 0.9, 10, 10, 50, 50),
	}
	kept := NonMaxSuppression(dets, 0.45)
	require.Len(t, kept, 2)
	assert.InDelta(t, 0.9, kept[0].Confidence, 1e-9)
}

func TestBoxesConversion(t *testing.T) {
	dets := []Detection{det(3, 0.9, 10, 20, 110, 80)}
	boxes := Boxes(dets)
	require.Len(t, boxes, 1)
	assert.Equal(t, 3, boxes[0].Class)
	assert.InDelta(t, 10, boxes[0].X1, 1e-9)
	assert.InDelta(t, 80, boxes[0].Y2, 1e-9)
}
