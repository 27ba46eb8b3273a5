package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every non-2xx answer.
// Error carries the underlying cause and is only set on 500s.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteMessage writes {"message": ...} with the given status
func WriteMessage(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Message: message}, logger)
}

// WriteFailure writes a 500 with the user-facing message and the technical cause
func WriteFailure(w http.ResponseWriter, message string, cause error, logger *slog.Logger) {
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Message: message, Error: cause.Error()}, logger)
}
