// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes {"error": errCode, "message": message}.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteErrorWithFields(w, status, errCode, message, nil)
}

// WriteErrorWithFields writes an error response with extra top-level string
// fields. Fields cannot override "error" or "message".
func WriteErrorWithFields(w http.ResponseWriter, status int, errCode, message string, fields map[string]string) {
	body := make(map[string]string, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["error"] = errCode
	body["message"] = message
	WriteJSON(w, status, body)
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}
