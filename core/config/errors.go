package config

import "errors"

var (
	// ErrNilConfig is returned when Load receives a nil pointer.
	ErrNilConfig = errors.New("config: nil config pointer")

	// ErrParsing is returned when environment variables cannot be parsed.
	ErrParsing = errors.New("config: failed to parse environment")
)
