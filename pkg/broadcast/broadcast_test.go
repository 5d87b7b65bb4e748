package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/pkg/broadcast"
)

func receiveSoon[T any](t *testing.T, ch <-chan broadcast.Message[T]) broadcast.Message[T] {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return broadcast.Message[T]{}
	}
}

func TestMemoryBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](10)
	defer b.Close()

	ctx := context.Background()
	s1 := b.Subscribe(ctx)
	s2 := b.Subscribe(ctx)
	assert.Equal(t, 2, b.Subscribers())

	require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"}))

	assert.Equal(t, "hello", receiveSoon(t, s1.Receive()).Data)
	assert.Equal(t, "hello", receiveSoon(t, s2.Receive()).Data)
}

func TestMemoryBroadcaster_DropsWhenBufferFull(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	defer b.Close()

	ctx := context.Background()
	s := b.Subscribe(ctx)

	require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 1}))
	require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 2}))

	assert.Equal(t, 1, receiveSoon(t, s.Receive()).Data)
	select {
	case msg := <-s.Receive():
		t.Fatalf("unexpected message %v", msg)
	default:
	}
}

func TestMemoryBroadcaster_ContextCancelClosesSubscriber(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := b.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return b.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-s.Receive()
	assert.False(t, ok)
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](4)
	s := b.Subscribe(context.Background())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, ok := <-s.Receive()
	assert.False(t, ok)

	err := b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1})
	assert.ErrorIs(t, err, broadcast.ErrBroadcasterClosed)
}

func TestSubscriber_CloseTwice(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](4)
	defer b.Close()

	s := b.Subscribe(context.Background())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), broadcast.ErrSubscriberClosed)
	assert.Equal(t, 0, b.Subscribers())
}

func TestMemoryBroadcaster_CancelledBroadcastContext(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](4)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 1}), context.Canceled)
}

func TestMemoryBroadcaster_ConcurrentBroadcasts(t *testing.T) {
	t.Parallel()

	const producers, perProducer = 4, 25

	b := broadcast.NewMemoryBroadcaster[int](producers * perProducer)
	defer b.Close()

	s := b.Subscribe(context.Background())

	var g errgroup.Group
	for p := range producers {
		g.Go(func() error {
			for i := range perProducer {
				if err := b.Broadcast(context.Background(), broadcast.Message[int]{Data: p*perProducer + i}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int]bool)
	for range producers * perProducer {
		seen[receiveSoon(t, s.Receive()).Data] = true
	}
	assert.Len(t, seen, producers*perProducer)
}
