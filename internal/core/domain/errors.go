package domain

import "errors"

// Validation failures. Messages are shown to the operator verbatim.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameExists   = errors.New("username already exists")
	ErrEmailInUse       = errors.New("email already in use")
	ErrCannotDeleteSelf = errors.New("cannot delete your own user")
	ErrInvalidUser      = errors.New("username and a valid level are required")
)

// ErrInvalidCredentials is deliberately vague: it never says which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrCorruptStorage reports a stored slot whose contents do not match the expected shape.
var ErrCorruptStorage = errors.New("stored data is corrupt")
