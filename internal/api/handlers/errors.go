package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteJSON writes v with a 200 status
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent
		slog.Error("failed to encode response", "error", err)
	}
}

// QueryInt reads an optional integer query parameter; missing means 0
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
