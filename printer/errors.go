package printer

import "errors"

// Errors reported by printer operations. Wrapped values carry the
// operation detail; match with errors.Is.
var (
	// ErrConnection covers connect and send failures on any transport.
	ErrConnection = errors.New("printer: connection error")

	// ErrEncoding is returned when text cannot be represented in the
	// configured code page.
	ErrEncoding = errors.New("printer: encoding error")

	// ErrInvalidArgument is returned for negative counts.
	ErrInvalidArgument = errors.New("printer: invalid argument")
)
