// Package handlers provides HTTP response utilities for JSON APIs.
// These stateless functions standardize response formatting across handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Alert headers attached to mutation and error responses so clients can show
// notifications without parsing bodies.
const (
	HeaderAlert       = "X-Alert"
	HeaderAlertParams = "X-Alert-Params"
	HeaderAlertError  = "X-Alert-Error"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Entity string `json:"entity,omitempty"`
	Key    string `json:"key,omitempty"`
}

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a JSON error response.
// The response body contains {"error": "<error message>"}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logStatus(logger, status, err)
	RespondJSON(w, status, ErrorBody{Error: err.Error()})
}

// RespondAlertError is RespondError for entity operations. It adds the entity name and
// a stable key to the body and sets X-Alert-Error to "<entity>.<key>".
func RespondAlertError(w http.ResponseWriter, logger *slog.Logger, status int, entity, key string, err error) {
	logStatus(logger, status, err)
	w.Header().Set(HeaderAlertError, entity+"."+key)
	RespondJSON(w, status, ErrorBody{
		Error:  err.Error(),
		Entity: entity,
		Key:    key,
	})
}

// SetAlert sets the alert headers for a successful mutation, e.g. "article.created" with the entity id.
func SetAlert(w http.ResponseWriter, entity, action, param string) {
	w.Header().Set(HeaderAlert, entity+"."+action)
	if param != "" {
		w.Header().Set(HeaderAlertParams, param)
	}
}

func logStatus(logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
		return
	}
	logger.Warn("request rejected", "error", err, "status", status)
}
