package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolokit/yolokit/internal/box"
)

const img = "images/frame_0001.jpg"

func TestAddAndBoxes(t *testing.T) {
	s := New()
	a := box.New(0, 0, 0, 10, 10)
	b := box.New(1, 5, 5, 15, 15)
	s.Add(img, a, GroundTruth)
	s.Add(img, b, GroundTruth)

	boxes := s.Boxes(img, GroundTruth)
	require.Len(t, boxes, 2)
	assert.Same(t, a, boxes[0])
	assert.Same(t, b, boxes[1])
	assert.Equal(t, 2, s.Count(img, GroundTruth))
	assert.Equal(t, 0, s.Count(img, Predictions))
}

func TestPromoteSingleOwnership(t *testing.T) {
	s := New()
	p := box.New(0, 0, 0, 10, 10)
	s.Add(img, p, Predictions)
	s.Add(img, box.New(0, 20, 20, 30, 30), Predictions)

	require.True(t, s.Promote(img, p))

	assert.False(t, s.Contains(img, p, Predictions))
	gt := s.Boxes(img, GroundTruth)
	count := 0
	for _, b := range gt {
		if b == p {
			count++
		}
	}
	assert.Equal(t, 1, count, "promoted box must appear exactly once in GT")
	assert.Equal(t, 1, s.Count(img, Predictions))
}

func TestPromoteFromExtras(t *testing.T) {
	s := New()
	e := box.New(0, 0, 0, 10, 10)
	s.Add(img, e, Extras)
	require.True(t, s.Promote(img, e))
	assert.True(t, s.Contains(img, e, GroundTruth))
	assert.False(t, s.Contains(img, e, Extras))
}

func TestPromoteUnknownBoxIsNoop(t *testing.T) {
	s := New()
	stray := box.New(0, 0, 0, 10, 10)
	assert.False(t, s.Promote(img, stray))
	assert.Equal(t, 0, s.Count(img, GroundTruth))
}

func TestRemoveIdempotent(t *testing.T) {
	s := New()
	b := box.New(0, 0, 0, 10, 10)
	s.Add(img, b, GroundTruth)

	s.Remove(img, b, GroundTruth)
	after := s.Count(img, GroundTruth)
	s.Remove(img, b, GroundTruth) // stale handle, must not panic
	assert.Equal(t, after, s.Count(img, GroundTruth))
	assert.Equal(t, 0, after)
}

func TestRemoveWrongSetIsNoop(t *testing.T) {
	s := New()
	b := box.New(0, 0, 0, 10, 10)
	s.Add(img, b, Predictions)
	s.Remove(img, b, GroundTruth)
	assert.True(t, s.Contains(img, b, Predictions))
}

func TestPromoteAll(t *testing.T) {
	s := New()
	s.Add(img, box.New(0, 0, 0, 10, 10), Predictions)
	s.Add(img, box.New(1, 20, 20, 30, 30), Predictions)

	assert.Equal(t, 2, s.PromoteAll(img))
	assert.Equal(t, 0, s.Count(img, Predictions))
	assert.Equal(t, 2, s.Count(img, GroundTruth))
	assert.Equal(t, 0, s.PromoteAll(img))
}

func TestUnmatchedPredictions(t *testing.T) {
	s := New()
	s.Add(img, box.New(0, 0, 0, 10, 10), GroundTruth)
	matched := box.New(0, 0, 0, 10, 10)
	unmatched := box.New(1, 100, 100, 110, 110)
	s.Add(img, matched, Predictions)
	s.Add(img, unmatched, Predictions)

	got := s.UnmatchedPredictions(img, DefaultIoUThreshold)
	require.Len(t, got, 1)
	assert.Same(t, unmatched, got[0])
}

func TestUnmatchedPredictionsRecomputed(t *testing.T) {
	s := New()
	p := box.New(0, 0, 0, 10, 10)
	s.Add(img, p, Predictions)
	require.Len(t, s.UnmatchedPredictions(img, 0.5), 1)

	// Adding an overlapping GT box changes the view on the next call.
	s.Add(img, box.New(0, 0, 0, 10, 10), GroundTruth)
	assert.Empty(t, s.UnmatchedPredictions(img, 0.5))
}

func TestHitTestOrdering(t *testing.T) {
	s := New()
	gtOld := box.New(0, 0, 0, 20, 20)
	gtNew := box.New(1, 0, 0, 20, 20)
	pred := box.New(2, 0, 0, 20, 20)
	extra := box.New(3, 0, 0, 20, 20)
	s.Add(img, gtOld, GroundTruth)
	s.Add(img, gtNew, GroundTruth)
	s.Add(img, pred, Predictions)
	s.Add(img, extra, Extras)

	// GT wins over pred/extra; the most recently added GT box wins within GT.
	assert.Same(t, gtNew, s.HitTest(img, 10, 10))

	s.Remove(img, gtNew, GroundTruth)
	s.Remove(img, gtOld, GroundTruth)
	assert.Same(t, pred, s.HitTest(img, 10, 10))

	s.Remove(img, pred, Predictions)
	assert.Same(t, extra, s.HitTest(img, 10, 10))

	assert.Nil(t, s.HitTest(img, 500, 500))
}

func TestDeleteSearchesAllSets(t *testing.T) {
	s := New()
	b := box.New(0, 0, 0, 10, 10)
	s.Add(img, b, Extras)
	s.Delete(img, b)
	assert.Equal(t, 0, s.Count(img, Extras))
}

func TestDropAndReset(t *testing.T) {
	s := New()
	s.Add(img, box.New(0, 0, 0, 10, 10), GroundTruth)
	s.Add("other.jpg", box.New(0, 0, 0, 10, 10), Predictions)

	s.Drop(img)
	assert.Equal(t, 0, s.Count(img, GroundTruth))
	assert.Equal(t, 1, s.Count("other.jpg", Predictions))

	s.Reset()
	assert.Equal(t, 0, s.Count("other.jpg", Predictions))
}
