package service

import "errors"

// Business errors surfaced to the HTTP layer. Handlers map these onto status
// codes; anything unrecognized becomes a 500.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrShareNotFound        = errors.New("note is not shared with this user")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrValidation           = errors.New("missing or invalid field")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: email already in use")
	ErrAlreadyShared        = errors.New("note already shared with this user")
	ErrInternalServer       = errors.New("internal server error")
)
