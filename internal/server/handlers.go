package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/store"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	s.writeJSON(w, response)
}

// datasetHandler returns information about the open dataset.
func (s *Server) datasetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := DatasetResponse{
		Root:       s.session.Root(),
		ImageCount: s.session.Len(),
		Index:      s.session.Index(),
		Classes:    s.session.Classes(),
		Detector:   s.detector != nil,
	}

	s.writeJSON(w, response)
}

// stateHandler returns the full annotation state for the current image.
func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeState(w)
}

// navigateHandler moves the session between dataset images.
func (s *Server) navigateHandler(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !s.decodePost(w, r, &req) {
		return
	}

	var err error
	switch req.Action {
	case "next":
		err = s.session.Next()
	case "prev":
		err = s.session.Prev()
	case "goto":
		err = s.session.Seek(req.Index)
	default:
		s.writeErrorResponse(w, "Unknown navigate action: "+req.Action, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeState(w)
}

// addBoxHandler appends a new ground-truth box drawn in image space.
func (s *Server) addBoxHandler(w http.ResponseWriter, r *http.Request) {
	var req AddBoxRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	class := -1 // session substitutes its default class
	if req.Class != nil {
		class = *req.Class
	}
	if err := s.session.AddBox(class, req.X1, req.Y1, req.X2, req.Y2); err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeState(w)
}

// deleteBoxHandler removes a box addressed by set and index.
func (s *Server) deleteBoxHandler(w http.ResponseWriter, r *http.Request) {
	var req BoxRef
	if !s.decodePost(w, r, &req) {
		return
	}
	set, ok := s.parseSet(w, req.Set)
	if !ok {
		return
	}
	s.session.DeleteBox(set, req.Index)
	s.writeState(w)
}

// moveBoxHandler translates a box by a pixel delta.
func (s *Server) moveBoxHandler(w http.ResponseWriter, r *http.Request) {
	var req MoveBoxRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	set, ok := s.parseSet(w, req.Set)
	if !ok {
		return
	}
	s.session.MoveBox(set, req.Index, req.DX, req.DY)
	s.writeState(w)
}

// resizeBoxHandler drags one corner of a box to an image-space point.
func (s *Server) resizeBoxHandler(w http.ResponseWriter, r *http.Request) {
	var req ResizeBoxRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	set, ok := s.parseSet(w, req.Set)
	if !ok {
		return
	}
	corner, err := store.ParseCorner(req.Corner)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.session.ResizeBox(set, req.Index, corner, req.X, req.Y)
	s.writeState(w)
}

// hitTestHandler resolves the topmost box under an image-space point.
func (s *Server) hitTestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeErrorResponse(w, "Invalid x/y query parameters", http.StatusBadRequest)
		return
	}

	set, idx, hit := s.session.HitTest(x, y)
	response := HitResponse{Hit: hit}
	if hit {
		response.Set = set.String()
		response.Index = idx
	}
	s.writeJSON(w, response)
}

// promoteBoxHandler validates one prediction or extra into ground truth.
func (s *Server) promoteBoxHandler(w http.ResponseWriter, r *http.Request) {
	var req BoxRef
	if !s.decodePost(w, r, &req) {
		return
	}
	set, ok := s.parseSet(w, req.Set)
	if !ok {
		return
	}
	promoted := 0
	if s.session.PromoteBox(set, req.Index) {
		promoted = 1
	}
	s.writeJSON(w, PromoteResponse{Success: true, Promoted: promoted})
}

// promoteAllHandler validates every prediction for the current image.
func (s *Server) promoteAllHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := s.session.PromoteAllPredictions()
	s.writeJSON(w, PromoteResponse{Success: true, Promoted: n})
}

// promoteUnmatchedHandler validates only predictions with no ground-truth
// match at the configured IoU threshold.
func (s *Server) promoteUnmatchedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := s.session.PromoteUnmatched(s.iouThreshold)
	s.writeJSON(w, PromoteResponse{Success: true, Promoted: n})
}

// saveHandler writes the current image's ground truth to its label file.
func (s *Server) saveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.session.SaveCurrent(); err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, ErrorResponse{Success: true})
}

// clearHandler drops all ground truth for the current image.
func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.session.ClearGroundTruth(); err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeState(w)
}

// deleteImageHandler removes the current image and its annotation files.
func (s *Server) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.session.DeleteCurrentImage(); err != nil {
		s.writeSessionError(w, err)
		return
	}
	if s.session.Len() == 0 {
		s.writeJSON(w, ErrorResponse{Success: true})
		return
	}
	s.writeState(w)
}

// decodePost enforces the POST method and decodes a JSON request body.
func (s *Server) decodePost(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// parseSet converts a set name from a request, writing a 400 on failure.
func (s *Server) parseSet(w http.ResponseWriter, name string) (store.Set, bool) {
	set, err := store.ParseSet(name)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return set, true
}

// writeState writes the current annotation snapshot as a JSON response.
func (s *Server) writeState(w http.ResponseWriter) {
	snap, err := s.session.Snapshot(s.iouThreshold)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, StateResponse{Success: true, State: snap})
}

// writeSessionError maps session errors to HTTP status codes.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, dataset.ErrNoImage) {
		status = http.StatusConflict
	}
	s.writeErrorResponse(w, err.Error(), status)
}

// writeJSON writes a JSON response with a 200 status.
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
