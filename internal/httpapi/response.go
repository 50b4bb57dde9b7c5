package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response body")
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps err to its HTTP status via apperrors and writes a body
// that never leaks a database/network/internal cause to the client; the
// full error, including cause, still reaches the request log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.GetStatusCode(err)
	fields := apperrors.LogFields(err)
	fields["method"] = r.Method
	fields["path"] = r.URL.Path
	entry := logrus.WithFields(fields)
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	writeJSON(w, status, errorBody{Error: apperrors.SafeErrorMessage(err)})
}

// decodeJSON reads and unmarshals the request body into dst, returning a
// validation AppError on malformed JSON.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("malformed request body: " + err.Error())
	}
	return nil
}

func validationError(err error) error {
	return apperrors.NewValidationError(err.Error())
}
