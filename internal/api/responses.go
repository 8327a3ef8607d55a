package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "chatloom/backend/internal/errors"
)

// Shared DTOs for API responses and helpers for sending consistent HTTP and
// SSE responses.

// ErrorResponse is the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic success response for operations that don't
// return a resource. Status is "ok", or "noop" when the operation was
// legitimately skipped (e.g. renaming to an empty title).
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithError maps domain errors to HTTP status codes and writes a
// standard JSON error body. The detailed error is logged; the client gets a
// stable message.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, apperrors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, apperrors.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "A required backend service is currently unavailable."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// sendStreamError sends a structured error event over an SSE stream, so
// clients can attach a dedicated error listener.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)

	jsonData, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		slog.Error("Failed to marshal stream error payload", "error", err)
		return
	}

	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", string(jsonData)); err != nil {
		// Usually just the client hanging up.
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
		return
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeStreamEvent marshals data and writes it as one SSE event. A write
// failure signals a closed connection and is returned to stop the stream.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		// The stream is still healthy; the problem is this payload.
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
