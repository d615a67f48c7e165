// Package server provides the HTTP API over the generation pipelines.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/fetch"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/synthesis"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus maps pipeline errors onto status codes. Input problems are the
// caller's fault; upstream model and fetch failures are gateway errors.
func HTTPStatus(err error) int {
	var (
		unsupported *ingestion.UnsupportedFormatError
		corrupt     *ingestion.CorruptFileError
		tooLarge    *ingestion.FileTooLargeError
		validation  *ErrValidation
		generation  *synthesis.GenerationFailure
		fetchErr    *fetch.Error
		cfgErr      *config.ConfigurationError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupported), errors.As(err, &corrupt), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &generation), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends an error response. The error string is shown to the user
// verbatim, matching CLI behavior.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}) //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
