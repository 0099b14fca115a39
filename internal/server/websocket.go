package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yolokit/yolokit/internal/store"
)

const (
	wsReadDeadline  = 60 * time.Second
	wsPingInterval  = 30 * time.Second
	wsWriteDeadline = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: check the Origin header against the configured CORS origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketEditRequest is one interactive edit event. Drag gestures send a
// stream of move or resize events; a draw event finalizes a new box.
type WebSocketEditRequest struct {
	Type   string  `json:"type"` // "move", "resize", "draw" or "state"
	Set    string  `json:"set,omitempty"`
	Index  int     `json:"index,omitempty"`
	Corner string  `json:"corner,omitempty"`
	Class  *int    `json:"class,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
}

// WebSocketEditResponse carries the annotation state after an edit.
type WebSocketEditResponse struct {
	Type      string      `json:"type"`
	Status    string      `json:"status"` // "ok" or "error"
	State     interface{} `json:"state,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
}

// labelWebSocketHandler upgrades the connection and pumps edit events until
// the client goes away.
func (s *Server) labelWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("websocket client connected", "remote_addr", r.RemoteAddr)
	s.readEditEvents(conn)
}

// readEditEvents runs the read loop with a ping/pong keepalive. A client
// that stops answering pings times out via the read deadline.
func (s *Server) readEditEvents(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})

	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for range ticker.C {
			deadline := time.Now().Add(wsWriteDeadline)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read failed", "error", err)
			}
			return
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()
		if msgType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage applies one edit event and answers with the
// resulting annotation state.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketEditRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("malformed edit event: %v", err))
		return
	}

	switch req.Type {
	case "move":
		set, err := store.ParseSet(req.Set)
		if err != nil {
			s.sendWebSocketError(conn, "invalid_request", err.Error())
			return
		}
		s.session.MoveBox(set, req.Index, req.DX, req.DY)
	case "resize":
		set, err := store.ParseSet(req.Set)
		if err != nil {
			s.sendWebSocketError(conn, "invalid_request", err.Error())
			return
		}
		corner, err := store.ParseCorner(req.Corner)
		if err != nil {
			s.sendWebSocketError(conn, "invalid_request", err.Error())
			return
		}
		s.session.ResizeBox(set, req.Index, corner, req.X, req.Y)
	case "draw":
		class := -1 // session substitutes its default class
		if req.Class != nil {
			class = *req.Class
		}
		if err := s.session.AddBox(class, req.X, req.Y, req.X2, req.Y2); err != nil {
			s.sendWebSocketError(conn, "edit_error", err.Error())
			return
		}
	case "state":
		// Fall through to the state response below.
	default:
		s.sendWebSocketError(conn, "invalid_request", "unsupported event type: "+req.Type)
		return
	}

	snap, err := s.session.Snapshot(s.iouThreshold)
	if err != nil {
		s.sendWebSocketError(conn, "edit_error", err.Error())
		return
	}
	s.sendWebSocketResponse(conn, WebSocketEditResponse{
		Type:   "edit_response",
		Status: "ok",
		State:  snap,
	})
}

func (s *Server) sendWebSocketResponse(conn *websocket.Conn, response WebSocketEditResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("websocket response marshal failed", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("websocket write failed", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

func (s *Server) sendWebSocketError(conn *websocket.Conn, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketEditResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
