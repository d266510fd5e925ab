package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/internal/store"
)

// errorBody is the JSON shape of every error response. Detail is a string,
// or a list of field problems for validation failures. Server-side
// failures carry a generic message; the cause is only logged.
type errorBody struct {
	Detail    any    `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps an error to its HTTP status: bad input is a 4xx, a failed
// build or anything unexpected is a 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, resumepdf.ErrInvalidInput), errors.Is(err, errBadJSON):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, resumepdf.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorBody{Detail: err.Error(), RequestID: RequestID(r.Context())}
	var verr *resumepdf.ValidationError
	if errors.As(err, &verr) {
		body.Detail = verr.Fields
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", body.RequestID)
		body.Detail = http.StatusText(status)
		if errors.Is(err, resumepdf.ErrBuildFailed) {
			body.Detail = "document build failed"
		}
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

var errBadJSON = errors.New("invalid JSON body")

// decodeBody reads a JSON object from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var payload map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadJSON, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: expected an object", errBadJSON)
	}
	return payload, nil
}
