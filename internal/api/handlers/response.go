package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	apperrors "github.com/EatWhereLa/eat-where-la-backend-server/pkg/errors"
)

const maxBodyBytes = 1 << 20

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"message": message,
	})
}

// respondWithAppError maps err to a status code. Client errors echo the
// AppError message; server errors are logged and answered generically.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("error_type", string(apperrors.TypeOf(err))).
			Msg(fallback)
		respondWithError(w, status, fallback)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		respondWithError(w, status, appErr.Message)
		return
	}
	respondWithError(w, status, fallback)
}

func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}

// requireQuery returns the named query parameters, or a validation error
// naming the first one missing.
func requireQuery(r *http.Request, names ...string) ([]string, error) {
	query := r.URL.Query()
	values := make([]string, 0, len(names))
	for _, name := range names {
		v := strings.TrimSpace(query.Get(name))
		if v == "" {
			return nil, apperrors.NewValidationError(name + " is required")
		}
		values = append(values, v)
	}
	return values, nil
}
