// Package view maps image pixel coordinates to display coordinates under an
// arbitrary pan/zoom transform.
package view

import "math"

// minScale guards divisions when the canvas is degenerate.
const minScale = 1e-6

// DefaultPanFraction is the fraction of the smaller canvas dimension moved by
// one directional pan step.
const DefaultPanFraction = 0.2

// MinPanStep is the smallest directional pan step in canvas pixels.
const MinPanStep = 50

// Transform holds the pan/zoom state of one image view. Zoom is a
// multiplicative factor over the fit-to-window base scale; OffsetX/OffsetY
// position the image's top-left corner in display space. The struct is owned
// by the UI goroutine; it carries no locking.
type Transform struct {
	Zoom       float64
	BaseScale  float64
	OffsetX    float64
	OffsetY    float64
	KeepAspect bool

	canvasW, canvasH int
	imgW, imgH       int
}

// NewTransform returns a transform with aspect-preserving fit enabled.
func NewTransform() *Transform {
	return &Transform{Zoom: 1.0, BaseScale: 1.0, KeepAspect: true}
}

// Scale returns the effective image-to-display scale.
func (t *Transform) Scale() float64 {
	return t.BaseScale * t.Zoom
}

// DisplaySize returns the displayed image size in canvas pixels.
func (t *Transform) DisplaySize() (w, h float64) {
	return float64(t.imgW) * t.Scale(), float64(t.imgH) * t.Scale()
}

func (t *Transform) fitScale(canvasW, canvasH int) float64 {
	w := math.Max(1, float64(t.imgW))
	h := math.Max(1, float64(t.imgH))
	if t.KeepAspect {
		return math.Min(float64(canvasW)/w, float64(canvasH)/h)
	}
	return float64(canvasW) / w
}

// FitToWindow resets zoom to 1 and centers the image in the canvas. Called on
// every image switch and on explicit fit requests.
func (t *Transform) FitToWindow(canvasW, canvasH, imgW, imgH int) {
	t.canvasW, t.canvasH = canvasW, canvasH
	t.imgW, t.imgH = imgW, imgH
	t.Zoom = 1.0
	t.BaseScale = t.fitScale(canvasW, canvasH)

	dispW, dispH := t.DisplaySize()
	t.OffsetX = (float64(canvasW) - dispW) / 2
	t.OffsetY = (float64(canvasH) - dispH) / 2
}

// Resize updates the canvas dimensions, recomputing the base scale while
// keeping the current zoom and offsets.
func (t *Transform) Resize(canvasW, canvasH int) {
	t.canvasW, t.canvasH = canvasW, canvasH
	t.BaseScale = t.fitScale(canvasW, canvasH)
}

// ImageToCanvas converts an image-space point to display coordinates.
func (t *Transform) ImageToCanvas(ix, iy float64) (cx, cy float64) {
	s := t.Scale()
	return ix*s + t.OffsetX, iy*s + t.OffsetY
}

// CanvasToImage converts a display-space point to image coordinates, clamped
// to the image bounds so hit tests and draw starts never leave the image.
func (t *Transform) CanvasToImage(cx, cy float64) (ix, iy float64) {
	s := math.Max(minScale, t.Scale())
	ix = (cx - t.OffsetX) / s
	iy = (cy - t.OffsetY) / s
	ix = math.Max(0, math.Min(float64(t.imgW), ix))
	iy = math.Max(0, math.Min(float64(t.imgH), iy))
	return ix, iy
}

// ZoomAtCursor multiplies the zoom by factor while keeping the image point
// under the cursor fixed on screen. The cursor is clamped into the displayed
// image area first.
func (t *Transform) ZoomAtCursor(cx, cy, factor float64) {
	dispW, dispH := t.DisplaySize()
	cx = math.Max(t.OffsetX, math.Min(t.OffsetX+dispW, cx))
	cy = math.Max(t.OffsetY, math.Min(t.OffsetY+dispH, cy))

	ix, iy := t.CanvasToImage(cx, cy)
	t.Zoom *= factor
	s := t.Scale()
	t.OffsetX = cx - ix*s
	t.OffsetY = cy - iy*s
}

// ZoomToSelection zooms so that the region between two canvas points fills
// the canvas, centered. The selection is clamped to the visible image area.
func (t *Transform) ZoomToSelection(x1, y1, x2, y2 float64) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	dispW, dispH := t.DisplaySize()
	x1 = math.Max(t.OffsetX, math.Min(t.OffsetX+dispW, x1))
	x2 = math.Max(t.OffsetX, math.Min(t.OffsetX+dispW, x2))
	y1 = math.Max(t.OffsetY, math.Min(t.OffsetY+dispH, y1))
	y2 = math.Max(t.OffsetY, math.Min(t.OffsetY+dispH, y2))

	s := math.Max(minScale, t.Scale())
	imgX1 := (x1 - t.OffsetX) / s
	imgY1 := (y1 - t.OffsetY) / s
	imgX2 := (x2 - t.OffsetX) / s
	imgY2 := (y2 - t.OffsetY) / s
	regionW := math.Max(1, imgX2-imgX1)
	regionH := math.Max(1, imgY2-imgY1)

	// The region fully occupies the canvas in at least one axis; the other
	// axis may crop.
	newScale := math.Max(float64(t.canvasW)/regionW, float64(t.canvasH)/regionH)
	base := t.fitScale(t.canvasW, t.canvasH)
	t.BaseScale = base
	t.Zoom = newScale / base

	regionPixW := regionW * newScale
	regionPixH := regionH * newScale
	t.OffsetX = (float64(t.canvasW)-regionPixW)/2 - imgX1*newScale
	t.OffsetY = (float64(t.canvasH)-regionPixH)/2 - imgY1*newScale
}

// Pan translates the view by (dx, dy) canvas pixels.
func (t *Transform) Pan(dx, dy float64) {
	t.OffsetX += dx
	t.OffsetY += dy
}

// PanStep returns the directional pan step for the current canvas size.
func (t *Transform) PanStep() float64 {
	step := DefaultPanFraction * math.Min(float64(t.canvasW), float64(t.canvasH))
	return math.Max(MinPanStep, step)
}
