// Package box defines the annotated-region record shared by the annotation
// store, the persistence layer and the detectors.
package box

import "github.com/yolokit/yolokit/internal/geom"

// Box is a single annotated region in image pixel space. Corners are stored
// as given; interactive edit operations are responsible for keeping them
// ordered (see store package). Two boxes with identical field values are
// still distinct entities: the store tracks *Box pointers so that a selected
// or dragged box keeps its identity when it moves between sets.
type Box struct {
	Class          int
	X1, Y1, X2, Y2 float64
	Alpha          float64 // per-box display opacity override, 1 = opaque
}

// New creates a fully opaque box with the given class and pixel corners.
func New(class int, x1, y1, x2, y2 float64) *Box {
	return &Box{Class: class, X1: x1, Y1: y1, X2: x2, Y2: y2, Alpha: 1.0}
}

// Rect returns the box corners as a geometry rectangle.
func (b *Box) Rect() geom.Rect {
	return geom.Rect{X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2}
}

// Normalize converts the box into the normalized center format for the given
// image dimensions.
func (b *Box) Normalize(imgW, imgH int) (cx, cy, w, h float64) {
	return geom.PixelsToYolo(b.X1, b.Y1, b.X2, b.Y2, imgW, imgH)
}

// Contains reports whether the image-space point (x, y) lies inside the box.
func (b *Box) Contains(x, y float64) bool {
	return b.Rect().Contains(x, y)
}

// Width returns the horizontal extent of the box.
func (b *Box) Width() float64 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box.
func (b *Box) Height() float64 { return b.Y2 - b.Y1 }
