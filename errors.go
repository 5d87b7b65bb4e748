package relay

import "errors"

var (
	// ErrBusClosed is returned by operations on a closed bus.
	ErrBusClosed = errors.New("relay: bus is closed")

	// ErrNilMessage is returned when publishing a nil message.
	ErrNilMessage = errors.New("relay: nil message")
)
