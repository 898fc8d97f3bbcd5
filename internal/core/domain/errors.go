package domain

import "errors"

// Sentinel errors raised by the core services. The HTTP layer resolves them
// to status codes in a single place (internal/api error handler).
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEventNotFound      = errors.New("event not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrNotRegistered      = errors.New("not registered for this event")
	ErrNotAnImage         = errors.New("only image files are allowed")
	ErrImageTooLarge      = errors.New("image exceeds the size limit")
)
