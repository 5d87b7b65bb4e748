package relay

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/dmitrymomot/relay/core/config"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/stream"
	"github.com/dmitrymomot/relay/pkg/async"
)

// Bus routes published messages to per-type channels.
type Bus struct {
	container *stream.TypeContainer
	config    stream.Config
	logger    *slog.Logger
	closed    atomic.Bool
}

// New creates a bus. Without WithConfig it uses stream.DefaultConfig.
func New(opts ...Option) (*Bus, error) {
	o := options{
		config: stream.DefaultConfig(),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	containerOpts := []stream.ContainerOption{stream.WithContainerLogger(o.logger)}
	if o.hierarchy != nil {
		containerOpts = append(containerOpts, stream.WithHierarchy(o.hierarchy))
	}

	c, err := o.config.NewContainer(containerOpts...)
	if err != nil {
		return nil, fmt.Errorf("relay: invalid config: %w", err)
	}

	o.logger.Debug("bus created", slog.Any("config", o.config))

	return &Bus{
		container: c,
		config:    o.config,
		logger:    o.logger,
	}, nil
}

// NewFromEnv creates a bus configured from STREAM_* environment variables.
// Options are applied after the environment, so WithConfig overrides it.
func NewFromEnv(opts ...Option) (*Bus, error) {
	var cfg stream.Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("relay: load config: %w", err)
	}
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Subscribe registers r on the channel of T, creating the channel on first use.
func Subscribe[T any](b *Bus, r stream.Receiver[T]) (*stream.Subscription[any], error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	return stream.SubscribeTo(b.container, r)
}

// SubscribeFunc registers fn on the channel of T.
func SubscribeFunc[T any](b *Bus, fn func(T) bool) (*stream.Subscription[any], error) {
	return Subscribe(b, stream.NextFunc(fn))
}

// Channel returns the channel of T, creating it on first use.
func Channel[T any](b *Bus) (*stream.Stream[any], error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	return stream.ChildFor[T](b.container)
}

// Publish dispatches msg to the channel of its type and reports whether any
// receiver handled it. It returns stream.ErrNoChannel when nothing subscribed
// to the type or, with downcast enabled, to one of its ancestors.
func (b *Bus) Publish(msg any) (bool, error) {
	if b.closed.Load() {
		return false, ErrBusClosed
	}
	if msg == nil {
		return false, ErrNilMessage
	}

	handled, err := b.container.Publish(msg)
	if err != nil {
		b.logger.Debug("message not routed",
			logger.MessageType(reflect.TypeOf(msg)),
			logger.Error(err))
		return false, err
	}
	return handled, nil
}

// PublishAsync publishes msg on a separate goroutine.
// A cancelled ctx prevents the publish from starting.
func (b *Bus) PublishAsync(ctx context.Context, msg any) *async.Future[bool] {
	return async.Async(ctx, msg, func(_ context.Context, m any) (bool, error) {
		return b.Publish(m)
	})
}

// Extend registers parent as an explicit ancestor of child for downcast routing.
func (b *Bus) Extend(child, parent reflect.Type) error {
	return b.container.Hierarchy().Extend(child, parent)
}

// Config returns the configuration the bus was built with.
func (b *Bus) Config() stream.Config {
	return b.config
}

// Channels returns the number of channels created so far.
func (b *Bus) Channels() int {
	return b.container.Len()
}

// Close closes every channel, completing all receivers.
// Closing twice is a no-op.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := b.container.Close()
	b.logger.Debug("bus closed", logger.Count("channels", b.container.Len()), logger.Error(err))
	return err
}
