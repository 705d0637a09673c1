package service

import "errors"

var (
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrForbidden means the identity is authenticated but lacks the
	// required role or does not own the resource.
	ErrForbidden = errors.New("not enough permissions")
	// ErrInvalidRole is returned when a role name is not user, author or admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrPasswordTooLong is returned when a new password exceeds what
	// bcrypt can hash.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidEvent wraps event validation failures.
	ErrInvalidEvent = errors.New("invalid event")
)
