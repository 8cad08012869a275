package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/voltatrips/volta/backend/internal/domain"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgForbidden        = "Forbidden"
	msgConflict         = "User already registered"
	msgInternal         = "Internal server error"
	msgUpstream         = "Failed to get data from API"
	msgInvalidJSON      = "Invalid JSON body"
	msgBodyTooLarge     = "Request body too large"
	msgUserNotFound     = "User not found"
	msgTripNotFound     = "Trip not found"
	msgPlanNotFound     = "Plan not found"
	msgRouteNotFound    = "Not found"
	msgMethodNotAllowed = "Method not allowed"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeError answers with status and {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeServiceError maps a service error onto the error taxonomy.
// notFound is the message used for domain.ErrNotFound, since only the handler
// knows what was being looked up. Anything unmapped is logged, reported to
// Sentry and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, msgConflict)
	default:
		writeInternalError(w, r, err)
	}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	captureException(r, err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// captureException reports err on the request's Sentry hub when the Sentry
// middleware is installed, and on the global hub otherwise. Without a DSN
// both are no-ops.
func captureException(r *http.Request, err error) {
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// validationMessage extracts the human-readable part of a wrapped
// domain.ErrValidation.
// e.g. "service.TripService.Create: validation error: destination is required"
// → "destination is required"
func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
