package response

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent; an encode failure can only be dropped.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response with a machine-checkable code and optional details
func Error(w http.ResponseWriter, status int, code, details string) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Raw writes an already encoded JSON body as is.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// DoneMarker is the payload of the last event of a completed stream.
const DoneMarker = "[DONE]"

// EventWriter writes server-sent events and flushes each one.
type EventWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

// StartEvents sends the event-stream headers with status 200.
func StartEvents(w http.ResponseWriter) *EventWriter {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return &EventWriter{w: w, rc: http.NewResponseController(w)}
}

// Data writes one `data:` event.
func (e *EventWriter) Data(payload []byte) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	// Writers without flush support still get the bytes.
	_ = e.rc.Flush()
	return nil
}

// Error writes an error event in the regular error body format.
func (e *EventWriter) Error(code, details string) error {
	payload, err := json.Marshal(ErrorResponse{Error: code, Details: details})
	if err != nil {
		return err
	}
	return e.Data(payload)
}

// Done terminates the stream.
func (e *EventWriter) Done() error {
	return e.Data([]byte(DoneMarker))
}
