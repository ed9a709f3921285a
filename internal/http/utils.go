package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain error types to HTTP status codes.
// Validation problems and missing entities surface their message;
// anything else is logged and reported as a generic 500 so internals
// never leak to the client.
func writeServiceError(w http.ResponseWriter, log logger.Logger, op string, err error) {
	switch {
	case domain.IsValidationError(err):
		WriteJSONError(w, validationMessage(err), http.StatusBadRequest)
	case domain.IsNotFound(err):
		WriteJSONError(w, err.Error(), http.StatusNotFound)
	case domain.IsUnauthenticated(err):
		WriteJSONError(w, unauthenticatedMessage(err), http.StatusUnauthorized)
	default:
		log.WithField("error", err.Error()).Error("Failed to " + op)
		WriteJSONError(w, "Failed to "+op, http.StatusInternalServerError)
	}
}

func validationMessage(err error) string {
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

func unauthenticatedMessage(err error) string {
	var ua *domain.ErrUnauthenticated
	if errors.As(err, &ua) && ua.Reason != "" {
		return ua.Reason
	}
	return "Unauthorized"
}
