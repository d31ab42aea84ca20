package service

import "errors"

// Business errors returned by the services. The REST layer maps them to
// status codes; the realtime dispatcher logs and drops them (socket mutations
// fail silently by design, so existence is never leaked to the caller).
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrForbidden            = errors.New("operation not permitted")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInternalServer       = errors.New("internal server error")
)
