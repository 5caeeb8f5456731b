package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/service"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/store"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/upload"
)

// maxBatchPhotos is the number of full-size photos a single listing or
// banner request can carry.
const maxBatchPhotos = 20

// maxBodySize bounds JSON request bodies: maxBatchPhotos base64 encoded
// photos of upload.MaxFileSize plus room for the other fields. A body over
// the cap is rejected as a whole with 400, before any photo is stored.
const maxBodySize = maxBatchPhotos*upload.MaxFileSize*4/3 + 1<<20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error returned by the service layer to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, upload.ErrInvalidData),
		errors.Is(err, upload.ErrTooLarge),
		errors.Is(err, upload.ErrNotImage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConfigConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

// decodeJSON reads a JSON body into v. Errors are already wrapped with
// service.ErrValidation.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeJSONLimit(w, r, v, maxBodySize)
}

func decodeJSONLimit(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", service.ErrValidation, err)
	}
	return nil
}
