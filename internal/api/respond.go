package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "greenpark/internal/errors"
	"greenpark/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// httpError maps a service error to the status code and message sent to
// API clients.
func httpError(err error) *apperrors.HTTPError {
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrStartInPast),
		errors.Is(err, service.ErrUnknownVehicleType),
		errors.Is(err, service.ErrUnsupportedPaymentMethod),
		errors.Is(err, service.ErrMissingContact),
		errors.Is(err, service.ErrInvalidAdmin):
		return apperrors.Wrap(err, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return apperrors.Wrap(err, http.StatusNotFound, "Reservation not found")
	case errors.Is(err, service.ErrNotAvailable),
		errors.Is(err, service.ErrNotCancelable),
		errors.Is(err, service.ErrCancellationWindow):
		return apperrors.Wrap(err, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.Wrap(err, http.StatusUnauthorized, "Invalid credentials")
	}
	return apperrors.Wrap(err, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// writeError logs server-side failures and writes err as JSON.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	httpErr := httpError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}
	apperrors.Write(w, httpErr)
}

// ParseID parses a positive integer form or path value.
func ParseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
