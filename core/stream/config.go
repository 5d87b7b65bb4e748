package stream

import (
	"fmt"
	"log/slog"
)

// Config describes how routed child streams are built.
// Fields are loaded from the environment with core/config.
type Config struct {
	Strategy Variant `env:"STREAM_STRATEGY" envDefault:"batch"`
	Capacity int     `env:"STREAM_CAPACITY" envDefault:"16"`
	Downcast bool    `env:"STREAM_DOWNCAST" envDefault:"true"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Strategy: VariantBatch,
		Capacity: DefaultRoundRobinCapacity,
		Downcast: true,
	}
}

// Validate checks the strategy variant and capacity hint.
func (c Config) Validate() error {
	if !c.Strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(c.Strategy))
	}
	if c.Capacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Factory returns a strategy factory for untyped child streams.
func (c Config) Factory() (Factory[any], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewFactory[any](c.Strategy, c.Capacity)
}

// NewContainer builds a TypeContainer from the configuration.
func (c Config) NewContainer(opts ...ContainerOption) (*TypeContainer, error) {
	f, err := c.Factory()
	if err != nil {
		return nil, err
	}
	return NewTypeContainer(f, append([]ContainerOption{WithDowncast(c.Downcast)}, opts...)...), nil
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("strategy", c.Strategy.String()),
		slog.Int("capacity", c.Capacity),
		slog.Bool("downcast", c.Downcast),
	)
}
