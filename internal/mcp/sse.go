package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Responder writes a single JSON-RPC response in the framing the client asked for.
type Responder interface {
	SendResult(id interface{}, result interface{}) error
	SendError(id interface{}, code int, message string, data interface{}) error
}

// NewResponder picks SSE framing when the client accepts text/event-stream
// and plain JSON otherwise.
func NewResponder(w http.ResponseWriter, r *http.Request) Responder {
	if AcceptsEventStream(r) {
		sse, _ := NewSSEWriter(w)
		return sse
	}
	return NewJSONWriter(w)
}

// AcceptsEventStream reports whether the Accept header lists text/event-stream.
func AcceptsEventStream(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		for _, part := range strings.Split(v, ",") {
			mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
			if strings.EqualFold(strings.TrimSpace(mediaType), "text/event-stream") {
				return true
			}
		}
	}
	return false
}

// SSEWriter wraps http.ResponseWriter with SSE event sending capability
type SSEWriter struct {
	w http.ResponseWriter
}

// NewSSEWriter creates a new SSE writer from http.ResponseWriter
// Uses http.ResponseController to access Flusher even through middleware wrappers (Go 1.20+)
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	return &SSEWriter{w: w}, nil
}

// SendEvent sends a JSON-RPC response as an SSE event
func (s *SSEWriter) SendEvent(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE data: %w", err)
	}

	// SSE format: "event: message\ndata: {json}\n\n"
	if _, err := fmt.Fprintf(s.w, "event: message\ndata: %s\n\n", jsonData); err != nil {
		return fmt.Errorf("failed to write SSE event: %w", err)
	}

	if err := http.NewResponseController(s.w).Flush(); err != nil {
		return fmt.Errorf("failed to flush SSE event: %w", err)
	}

	return nil
}

// SendError sends a JSON-RPC error as an SSE event
func (s *SSEWriter) SendError(id interface{}, code int, message string, data interface{}) error {
	return s.SendEvent(NewJSONRPCError(id, code, message, data))
}

// SendResult sends a JSON-RPC success result as an SSE event
func (s *SSEWriter) SendResult(id interface{}, result interface{}) error {
	return s.SendEvent(NewJSONRPCResult(id, result))
}

// JSONWriter writes a JSON-RPC response as a plain application/json body.
type JSONWriter struct {
	w http.ResponseWriter
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w http.ResponseWriter) *JSONWriter {
	w.Header().Set("Content-Type", "application/json")
	return &JSONWriter{w: w}
}

func (j *JSONWriter) send(status int, resp *JSONRPCResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	j.w.WriteHeader(status)
	if _, err := j.w.Write(body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// SendError writes a JSON-RPC error with the matching HTTP status.
func (j *JSONWriter) SendError(id interface{}, code int, message string, data interface{}) error {
	resp := NewJSONRPCError(id, code, message, data)
	return j.send(HTTPStatusFromError(resp.Error), resp)
}

// SendResult writes a JSON-RPC success result.
func (j *JSONWriter) SendResult(id interface{}, result interface{}) error {
	return j.send(http.StatusOK, NewJSONRPCResult(id, result))
}
