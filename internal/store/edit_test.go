package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yolokit/yolokit/internal/box"
)

func TestClampToImageSlides(t *testing.T) {
	b := box.New(0, -10, 5, 40, 55)
	ClampToImage(b, 100, 100)
	assert.Equal(t, 0.0, b.X1)
	assert.Equal(t, 50.0, b.X2)
	assert.Equal(t, 5.0, b.Y1)
	assert.Equal(t, 55.0, b.Y2)
}

func TestClampToImagePreservesSize(t *testing.T) {
	b := box.New(0, 80, 80, 120, 130)
	ClampToImage(b, 100, 100)
	assert.InDelta(t, 40.0, b.Width(), 1e-9)
	assert.InDelta(t, 50.0, b.Height(), 1e-9)
	assert.Equal(t, 100.0, b.X2)
	assert.Equal(t, 100.0, b.Y2)
}

func TestClampToImageOversized(t *testing.T) {
	b := box.New(0, -10, -10, 200, 250)
	ClampToImage(b, 100, 100)
	assert.GreaterOrEqual(t, b.X1, 0.0)
	assert.GreaterOrEqual(t, b.Y1, 0.0)
	assert.LessOrEqual(t, b.X2, 100.0)
	assert.LessOrEqual(t, b.Y2, 100.0)
	assert.Less(t, b.X1, b.X2)
	assert.Less(t, b.Y1, b.Y2)
}

func TestMoveByClamps(t *testing.T) {
	b := box.New(0, 10, 10, 30, 30)
	MoveBy(b, 1000, 1000, 100, 100)
	assert.Equal(t, 100.0, b.X2)
	assert.Equal(t, 100.0, b.Y2)
	assert.InDelta(t, 20.0, b.Width(), 1e-9)
	assert.InDelta(t, 20.0, b.Height(), 1e-9)
}

func TestResizeCornerNoInversion(t *testing.T) {
	b := box.New(0, 10, 10, 30, 30)
	// Drag the top-left handle far past the bottom-right corner.
	ResizeCorner(b, TopLeft, 90, 90, 100, 100)
	assert.Equal(t, 29.0, b.X1)
	assert.Equal(t, 29.0, b.Y1)
	assert.Less(t, b.X1, b.X2)
	assert.Less(t, b.Y1, b.Y2)
}

func TestResizeCornerPastBoundary(t *testing.T) {
	b := box.New(0, 10, 10, 30, 30)
	ResizeCorner(b, BottomRight, 500, -500, 100, 100)
	assert.Equal(t, 100.0, b.X2)
	assert.Equal(t, 11.0, b.Y2)
	assert.GreaterOrEqual(t, b.X1, 0.0)
	assert.GreaterOrEqual(t, b.Y1, 0.0)
	assert.LessOrEqual(t, b.X2, 100.0)
	assert.LessOrEqual(t, b.Y2, 100.0)
}

func TestResizeEachCorner(t *testing.T) {
	cases := []struct {
		corner Corner
		x, y   float64
		want   [4]float64
	}{
		{TopLeft, 5, 6, [4]float64{5, 6, 30, 30}},
		{TopRight, 35, 6, [4]float64{10, 6, 35, 30}},
		{BottomRight, 35, 36, [4]float64{10, 10, 35, 36}},
		{BottomLeft, 5, 36, [4]float64{5, 10, 30, 36}},
	}
	for _, c := range cases {
		b := box.New(0, 10, 10, 30, 30)
		ResizeCorner(b, c.corner, c.x, c.y, 100, 100)
		assert.Equal(t, c.want[0], b.X1)
		assert.Equal(t, c.want[1], b.Y1)
		assert.Equal(t, c.want[2], b.X2)
		assert.Equal(t, c.want[3], b.Y2)
	}
}
