// Package handlers provides HTTP response utilities for the conversion API.
// Every JSON body written here is an Envelope so clients can branch on Success alone.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response body of the conversion API.
// Result, Results, and Errors accompany success; Error accompanies failure.
type Envelope struct {
	Success bool     `json:"success"`
	Result  any      `json:"result,omitempty"`
	Results any      `json:"results,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// OK builds a success envelope carrying a single result.
func OK(result any) Envelope {
	return Envelope{Success: true, Result: result}
}

// OKMany builds a success envelope carrying a result list and any per-file rejections.
func OKMany(results any, rejected []string) Envelope {
	return Envelope{Success: true, Results: results, Errors: rejected}
}

// Fail builds a failure envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a failure envelope.
// Client errors are logged at warn, server errors at error.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}
	RespondJSON(w, status, Fail(err.Error()))
}

// RespondOK writes env with a 200 status.
func RespondOK(w http.ResponseWriter, env Envelope) {
	RespondJSON(w, http.StatusOK, env)
}
