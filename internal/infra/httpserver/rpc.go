package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/telemetry"
)

// handleRPC processes one JSON-RPC message per POST. Notifications are
// acknowledged with 202 and an empty body. Requests produce exactly one
// response, serialized once and delivered either buffered or as a single
// SSE event depending on the client's Accept header.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Warn("failed to read request body",
			telemetry.SessionIDField(sessionID), zap.Error(err))
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	resp := s.dispatcher.Dispatch(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		s.logger.Debug("notification acknowledged",
			telemetry.SessionIDField(sessionID),
			telemetry.DurationField(time.Since(start)))
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to serialize response",
			telemetry.SessionIDField(sessionID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if wantsSSE(r) {
		s.writeSSE(w, sessionID, payload)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
	s.logger.Debug("response delivered",
		telemetry.SessionIDField(sessionID),
		telemetry.TransportField("buffered"),
		telemetry.DurationField(time.Since(start)))
}

// writeSSE emits the payload as one message event and returns, which
// closes the stream. The event carries the same bytes as the buffered path.
func (s *Server) writeSSE(w http.ResponseWriter, sessionID string, payload []byte) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte("event: message\ndata: "))
	_, _ = w.Write(payload)
	_, _ = w.Write([]byte("\n\n"))
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	s.logger.Debug("response delivered",
		telemetry.SessionIDField(sessionID),
		telemetry.TransportField("sse"))
}

func wantsSSE(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
