// Package controllers holds the HTTP handlers. Handlers decode requests, pull the verified caller
// identity from the context and translate service errors into the JSON envelope.
package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"youthevents/internal/delivery/http/helpers"
	"youthevents/internal/delivery/http/middleware"
	"youthevents/internal/domain"
)

// errorStatus maps a service error onto an HTTP status and envelope code. Unknown errors are faults.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRegistrationFailed):
		return http.StatusInternalServerError, helpers.ErrCodeInternalError
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, helpers.ErrCodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, helpers.ErrCodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, helpers.ErrCodeNotFound
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return http.StatusBadRequest, helpers.ErrCodeDuplicateRegistration
	case errors.Is(err, domain.ErrEventFull):
		return http.StatusBadRequest, helpers.ErrCodeEventFull
	case errors.Is(err, domain.ErrEventAlreadyOccurred):
		return http.StatusBadRequest, helpers.ErrCodeEventAlreadyOccurred
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, helpers.ErrCodeBadRequest
	default:
		return http.StatusInternalServerError, helpers.ErrCodeInternalError
	}
}

// writeServiceError writes err as a JSON error. Expected rejections are logged at debug level,
// faults at error level.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	} else {
		logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "method", r.Method, "status", status, "err", err)
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}

// callerIdentity returns the identity set by the auth middleware, writing a 401 when it is absent.
func callerIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.ExternalID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return domain.Identity{}, false
	}
	return identity, true
}
