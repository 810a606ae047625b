package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"clubledger/application"
	"clubledger/domain/entities"

	log "github.com/sirupsen/logrus"
)

// Response is the envelope every endpoint returns
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to write response")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}

// writeError maps engine errors to status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rejection *entities.Rejection
	switch {
	case errors.As(err, &rejection):
		writeFailure(w, http.StatusUnprocessableEntity, rejection.Message)
	case errors.Is(err, application.ErrInconsistentState):
		writeFailure(w, http.StatusConflict, application.ErrInconsistentState.Error())
	case errors.Is(err, application.ErrCollaboratorFailure):
		writeFailure(w, http.StatusInternalServerError, application.ErrCollaboratorFailure.Error())
	case errors.Is(err, application.ErrNotInitialized):
		writeFailure(w, http.StatusServiceUnavailable, application.ErrNotInitialized.Error())
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Unhandled request error")
		writeFailure(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
