package cookie

import "errors"

var (
	// ErrNoSecret is returned when New gets no usable secrets.
	ErrNoSecret = errors.New("cookie: at least one signing secret is required")

	// ErrSecretTooShort is returned for secrets below the minimum length.
	ErrSecretTooShort = errors.New("cookie: secret too short")

	// ErrCookieNotFound is returned when the request has no such cookie.
	ErrCookieNotFound = errors.New("cookie: not found")

	// ErrInvalidFormat is returned for values that are not value.signature.
	ErrInvalidFormat = errors.New("cookie: invalid format")

	// ErrInvalidSignature is returned when no secret verifies the value.
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)
