package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"metrogo/internal/app"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeAppError maps session errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, app.ErrNotLoggedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, app.ErrLowBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, app.ErrUnknownLine),
		errors.Is(err, app.ErrUnknownStation),
		errors.Is(err, app.ErrUnknownResult):
		status = http.StatusNotFound
	}
	writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
