package handler

import (
	"errors"
	"net/http"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	userdomain "vigat-bahee/internal/domain/user"
	"vigat-bahee/internal/metrics"
)

type apiError struct {
	status  int
	code    string
	message string
}

// classify maps domain errors to responses. ok is false for errors that are
// not expected from user input.
func classify(err error) (apiError, bool) {
	switch {
	case errors.Is(err, tithi.ErrInvalidDate):
		return apiError{http.StatusBadRequest, "invalid_date", "invalid date"}, true
	case errors.Is(err, tithi.ErrFutureDate):
		return apiError{http.StatusBadRequest, "future_date", "date cannot be in the future"}, true
	case baheedomain.IsValidation(err):
		return apiError{http.StatusBadRequest, "invalid_request", err.Error()}, true
	case errors.Is(err, baheedomain.ErrHeaderNotFound):
		return apiError{http.StatusNotFound, "bahee_not_found", "bahee not found"}, true
	case errors.Is(err, baheedomain.ErrEntryNotFound):
		return apiError{http.StatusNotFound, "entry_not_found", "entry not found"}, true
	case errors.Is(err, baheedomain.ErrHeaderExists):
		return apiError{http.StatusConflict, "bahee_exists", "bahee with this name already exists"}, true
	case errors.Is(err, baheedomain.ErrHeaderInUse):
		return apiError{http.StatusConflict, "bahee_in_use", "bahee still has entries"}, true
	case errors.Is(err, baheedomain.ErrEntryLocked):
		metrics.LockRejections.WithLabelValues(metrics.ReasonEntryLocked).Inc()
		return apiError{http.StatusConflict, "entry_locked", "entry is locked"}, true
	case errors.Is(err, baheedomain.ErrConcurrentLockRace):
		metrics.LockRejections.WithLabelValues(metrics.ReasonAlreadyLocked).Inc()
		return apiError{http.StatusConflict, "already_locked", "entry was locked by another request"}, true
	case errors.Is(err, baheedomain.ErrMissingConfirmation):
		metrics.LockRejections.WithLabelValues(metrics.ReasonMissingConfirmation).Inc()
		return apiError{http.StatusUnprocessableEntity, "missing_confirmation", "confirmation is required"}, true
	case errors.Is(err, userdomain.ErrUserExists):
		return apiError{http.StatusConflict, "user_exists", "username or email already registered"}, true
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, "invalid_credentials", "invalid credentials"}, true
	case errors.Is(err, userdomain.ErrUserNotFound):
		return apiError{http.StatusNotFound, "user_not_found", "user not found"}, true
	case errors.Is(err, userdomain.ErrUsernameRequired),
		errors.Is(err, userdomain.ErrEmailRequired),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrPasswordTooShort):
		return apiError{http.StatusBadRequest, "invalid_request", err.Error()}, true
	}
	return apiError{}, false
}

// fail writes the response for err and logs it at the matching level.
func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	if mapped, ok := classify(err); ok {
		h.log.BusinessError(op, err, args...)
		writeError(w, mapped.status, mapped.code, mapped.message)
		return
	}
	h.log.InternalError(op, err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
