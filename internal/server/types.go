package server

import (
	"net/http"

	"github.com/yolokit/yolokit/internal/dataset"
	"github.com/yolokit/yolokit/internal/detector"
	"github.com/yolokit/yolokit/internal/shapes"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	session      *dataset.Session
	detector     *detector.Detector
	shapeParams  shapes.Params
	iouThreshold float64
	corsOrigin   string
	timeoutSec   int
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	TimeoutSec   int
	IoUThreshold float64
	ShapeParams  shapes.Params
}

// Response types for API endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

type DatasetResponse struct {
	Root       string         `json:"root"`
	ImageCount int            `json:"image_count"`
	Index      int            `json:"index"`
	Classes    map[int]string `json:"classes"`
	Detector   bool           `json:"detector"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type NavigateRequest struct {
	Action string `json:"action"` // "next", "prev" or "goto"
	Index  int    `json:"index,omitempty"`
}

// AddBoxRequest draws a new ground-truth box. An omitted class falls back
// to the configured default class.
type AddBoxRequest struct {
	Class *int    `json:"class,omitempty"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
}

// BoxRef addresses one box by its set name and index within that set.
type BoxRef struct {
	Set   string `json:"set"`
	Index int    `json:"index"`
}

type MoveBoxRequest struct {
	BoxRef
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type ResizeBoxRequest struct {
	BoxRef
	Corner string  `json:"corner"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type HitResponse struct {
	Hit   bool   `json:"hit"`
	Set   string `json:"set,omitempty"`
	Index int    `json:"index,omitempty"`
}

type PromoteResponse struct {
	Success  bool `json:"success"`
	Promoted int  `json:"promoted"`
}

type ShapesRequest struct {
	Kind  string `json:"kind"` // rectangles, triangles, polygons, circles, green
	Class int    `json:"class"`
}

type ShapesResponse struct {
	Success bool             `json:"success"`
	Found   int              `json:"found"`
	State   dataset.Snapshot `json:"state"`
}

type PredictResponse struct {
	Success    bool             `json:"success"`
	Applied    bool             `json:"applied"`
	Detections int              `json:"detections"`
	State      dataset.Snapshot `json:"state"`
}

type StateResponse struct {
	Success bool             `json:"success"`
	State   dataset.Snapshot `json:"state"`
}

// NewServer creates a new labeling server instance. The detector is optional;
// when nil the predict endpoints report service unavailable.
func NewServer(session *dataset.Session, det *detector.Detector, config Config) *Server {
	return &Server{
		session:      session,
		detector:     det,
		shapeParams:  config.ShapeParams,
		iouThreshold: config.IoUThreshold,
		corsOrigin:   config.CORSOrigin,
		timeoutSec:   config.TimeoutSec,
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.detector != nil {
		return s.detector.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/dataset", s.corsMiddleware(s.datasetHandler))
	mux.HandleFunc("/state", s.corsMiddleware(s.stateHandler))
	mux.HandleFunc("/navigate", s.corsMiddleware(s.navigateHandler))
	mux.HandleFunc("/boxes", s.corsMiddleware(s.addBoxHandler))
	mux.HandleFunc("/boxes/delete", s.corsMiddleware(s.deleteBoxHandler))
	mux.HandleFunc("/boxes/move", s.corsMiddleware(s.moveBoxHandler))
	mux.HandleFunc("/boxes/resize", s.corsMiddleware(s.resizeBoxHandler))
	mux.HandleFunc("/boxes/hit", s.corsMiddleware(s.hitTestHandler))
	mux.HandleFunc("/boxes/promote", s.corsMiddleware(s.promoteBoxHandler))
	mux.HandleFunc("/boxes/promote-all", s.corsMiddleware(s.promoteAllHandler))
	mux.HandleFunc("/boxes/promote-unmatched", s.corsMiddleware(s.promoteUnmatchedHandler))
	mux.HandleFunc("/save", s.corsMiddleware(s.saveHandler))
	mux.HandleFunc("/clear", s.corsMiddleware(s.clearHandler))
	mux.HandleFunc("/image/delete", s.corsMiddleware(s.deleteImageHandler))
	mux.HandleFunc("/predict", s.corsMiddleware(s.predictHandler))
	mux.HandleFunc("/shapes", s.corsMiddleware(s.shapesHandler))
	mux.HandleFunc("/ws", s.labelWebSocketHandler)
}
