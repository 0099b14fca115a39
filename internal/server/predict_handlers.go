package server

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"github.com/yolokit/yolokit/internal/detector"
	"github.com/yolokit/yolokit/internal/shapes"
)

// predictHandler runs the detector on the current image and installs the
// results as the prediction set. Results arriving for an image the user has
// already navigated away from are discarded.
func (s *Server) predictHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.detector == nil {
		s.writeErrorResponse(w, "Detector not configured", http.StatusServiceUnavailable)
		return
	}

	imageID, img, ok := s.loadCurrentImage(w)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.timeoutSec)*time.Second)
	defer cancel()

	start := time.Now()
	detections, err := s.detector.Detect(ctx, img)
	if err != nil {
		predictRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Detection failed: %v", err), http.StatusInternalServerError)
		return
	}
	predictRequestsTotal.WithLabelValues("success").Inc()
	predictDuration.Observe(time.Since(start).Seconds())
	boxesDetected.Observe(float64(len(detections)))

	applied, err := s.session.ApplyPredictions(imageID, detector.Boxes(detections))
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snap, err := s.session.Snapshot(s.iouThreshold)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, PredictResponse{
		Success:    true,
		Applied:    applied,
		Detections: len(detections),
		State:      snap,
	})
}

// shapesHandler runs a classical shape finder on the current image and adds
// the candidates to the extra set for review.
func (s *Server) shapesHandler(w http.ResponseWriter, r *http.Request) {
	var req ShapesRequest
	if !s.decodePost(w, r, &req) {
		return
	}

	_, img, ok := s.loadCurrentImage(w)
	if !ok {
		return
	}

	cands, err := s.findShapes(req.Kind, img)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.session.AddExtras(shapes.Boxes(cands, req.Class)); err != nil {
		s.writeSessionError(w, err)
		return
	}
	shapeRequestsTotal.WithLabelValues(req.Kind).Inc()

	snap, err := s.session.Snapshot(s.iouThreshold)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, ShapesResponse{Success: true, Found: len(cands), State: snap})
}

// findShapes dispatches to the shape finder named by kind.
func (s *Server) findShapes(kind string, img image.Image) ([]shapes.Candidate, error) {
	switch kind {
	case "rectangles":
		return shapes.FindRectangles(img, s.shapeParams), nil
	case "triangles":
		return shapes.FindTriangles(img, s.shapeParams), nil
	case "polygons":
		return shapes.FindPolygons(img, s.shapeParams), nil
	case "circles":
		return shapes.FindCircles(img, s.shapeParams), nil
	case "green":
		rect, found := shapes.ExcessGreen(img, s.shapeParams.GreenThreshold)
		if !found {
			return nil, nil
		}
		return []shapes.Candidate{{Rect: rect, Vertices: 4, Confidence: 1}}, nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", kind)
	}
}

// loadCurrentImage decodes the session's current image from disk.
func (s *Server) loadCurrentImage(w http.ResponseWriter) (string, image.Image, bool) {
	imageID, ok := s.session.Current()
	if !ok {
		s.writeErrorResponse(w, "No image loaded", http.StatusConflict)
		return "", nil, false
	}
	img, err := imaging.Open(imageID)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Failed to read image: %v", err), http.StatusInternalServerError)
		return "", nil, false
	}
	return imageID, img, true
}
