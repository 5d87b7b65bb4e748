package relay

import (
	"log/slog"

	"github.com/dmitrymomot/relay/core/stream"
)

// Option configures a Bus during creation.
type Option func(*options)

type options struct {
	config    stream.Config
	logger    *slog.Logger
	hierarchy *stream.Hierarchy
}

// WithConfig sets the strategy, capacity and downcast settings of the bus.
func WithConfig(cfg stream.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger sets the logger of the bus and its channels.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHierarchy shares a type hierarchy with the bus.
func WithHierarchy(h *stream.Hierarchy) Option {
	return func(o *options) {
		if h != nil {
			o.hierarchy = h
		}
	}
}
