package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	apperrors "doctorsportal/internal/errors"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

// errorMessage returns the client-facing message for err. Internal causes stay in the logs.
func errorMessage(err error) string {
	var he *apperrors.HTTPError
	if stderrors.As(err, &he) {
		return he.Message
	}
	return "internal server error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"message": errorMessage(err)})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}
