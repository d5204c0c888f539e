package service

import "errors"

var (
	ErrInvalidTimeRange         = errors.New("end_time must be after start_time")
	ErrStartInPast              = errors.New("start_time must be in the future")
	ErrUnknownVehicleType       = errors.New("unknown vehicle type")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrMissingContact           = errors.New("name, email and phone are required")
	ErrNotAvailable             = errors.New("no spaces available for the requested period")
	ErrNotFound                 = errors.New("reservation not found")
	ErrNotCancelable            = errors.New("reservation cannot be canceled in its current status")
	ErrCancellationWindow       = errors.New("reservations can only be canceled more than 12 hours before the start time")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrInvalidAdmin             = errors.New("a valid email and a password of at least 8 characters are required")
)
