package stream

import (
	"io"
	"log/slog"
)

type streamOptions struct {
	container Container
	logger    *slog.Logger
}

// Option configures a Stream.
type Option func(*streamOptions)

// WithContainer sets the routing container owned by the stream.
// Sharing one container between sibling streams builds a routing tree.
func WithContainer(c Container) Option {
	return func(o *streamOptions) {
		if c != nil {
			o.container = c
		}
	}
}

// WithLogger configures structured logging for stream lifecycle events.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *streamOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
