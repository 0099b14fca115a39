package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yolokit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yolokit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Detection metrics
	predictRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yolokit_predict_requests_total",
			Help: "Total number of prediction requests",
		},
		[]string{"status"}, // status: success, error
	)

	predictDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yolokit_predict_duration_seconds",
			Help:    "Detector inference duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 25},
		},
	)

	boxesDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yolokit_boxes_detected",
			Help:    "Number of boxes per prediction request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// Shape finder metrics
	shapeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yolokit_shape_requests_total",
			Help: "Total number of shape finder requests",
		},
		[]string{"kind"}, // kind: rectangles, triangles, polygons, circles, green
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yolokit_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yolokit_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
