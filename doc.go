// Package relay is an in-process, typed publish/subscribe hub.
//
// A Bus owns one channel per message type. Receivers subscribe to the
// channel of the type they consume; publishers hand any value to the bus,
// which routes it by its runtime type. With downcast routing enabled a
// message without a channel of its own is delivered to the channel of its
// nearest ancestor, where ancestry follows struct embedding and explicit
// interface parents registered with Extend.
//
// Each channel dispatches through a strategy chosen by configuration:
// batch delivers to every receiver, round robin delivers to one receiver
// and rotates fairly between calls.
//
// # Usage
//
//	bus, err := relay.New(relay.WithConfig(stream.Config{
//	    Strategy: stream.VariantBatch,
//	    Downcast: true,
//	}))
//	if err != nil {
//	    return err
//	}
//	defer bus.Close()
//
//	sub, err := relay.SubscribeFunc(bus, func(e UserCreated) bool {
//	    return welcome(e.Email)
//	})
//	if err != nil {
//	    return err
//	}
//	defer sub.Dispose()
//
//	handled, err := bus.Publish(UserCreated{Email: "bob@example.com"})
//
// # Configuration
//
// NewFromEnv reads the configuration through core/config:
//
//	STREAM_STRATEGY  batch | round_robin (default batch)
//	STREAM_CAPACITY  round robin queue capacity hint (default 16)
//	STREAM_DOWNCAST  route to ancestor channels (default true)
//
// # Packages
//
//	github.com/dmitrymomot/relay/core/stream    - receivers, strategies, channels, routing containers
//	github.com/dmitrymomot/relay/core/config    - cached environment configuration loading
//	github.com/dmitrymomot/relay/core/logger    - slog construction and attribute helpers
//	github.com/dmitrymomot/relay/pkg/async      - generic futures
//	github.com/dmitrymomot/relay/pkg/broadcast  - buffered channel subscribers over a batch stream
package relay
