package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/relay/pkg/async"
)

func TestAsync_ReturnsValue(t *testing.T) {
	t.Parallel()

	f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, f.IsComplete())
}

func TestAsync_PropagatesError(t *testing.T) {
	t.Parallel()

	expected := errors.New("boom")
	f := async.Async(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, expected
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, expected)
}

func TestAsync_PreCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	f := async.Async(ctx, 1, func(context.Context, int) (int, error) {
		called = true
		return 1, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAsync_RecoversPanic(t *testing.T) {
	t.Parallel()

	f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
		panic("bad")
	})

	_, err := f.Await()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
		<-release
		return 7, nil
	})

	_, err := f.AwaitWithTimeout(20 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
	assert.False(t, f.IsComplete())

	close(release)
	v, err := f.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	double := func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(10*(3-n)) * time.Millisecond)
		return n * 2, nil
	}

	results, err := async.WaitAll(
		async.Async(ctx, 1, double),
		async.Async(ctx, 2, double),
		async.Async(ctx, 3, double),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, results)
}

func TestWaitAll_FirstError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	expected := errors.New("second failed")

	_, err := async.WaitAll(
		async.Async(ctx, 1, func(context.Context, int) (int, error) { return 1, nil }),
		async.Async(ctx, 2, func(context.Context, int) (int, error) { return 0, expected }),
	)
	assert.ErrorIs(t, err, expected)
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slow := async.Async(ctx, 0, func(context.Context, int) (string, error) {
		time.Sleep(200 * time.Millisecond)
		return "slow", nil
	})
	fast := async.Async(ctx, 0, func(context.Context, int) (string, error) {
		return "fast", nil
	})

	idx, v, err := async.WaitAny(slow, fast)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "fast", v)
}

func TestWaitAny_NoFutures(t *testing.T) {
	t.Parallel()

	idx, _, err := async.WaitAny[int]()
	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, err, async.ErrNoFutures)
}
