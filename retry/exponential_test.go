package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/teenjuna/onion/internal/testing/require"
	"github.com/teenjuna/onion/retry"
)

func TestExponential(t *testing.T) {
	inBubble(t, "With attempts", func(t *testing.T) {
		p := retry.Exponential(5, time.Second, time.Minute)
		require.NotNil(t, p)
	})

	inBubble(t, "With attempts, base and jitter", func(t *testing.T) {
		p := retry.Exponential(5, time.Second, time.Minute).
			WithBase(3).
			WithJitter(0.1)
		require.NotNil(t, p)
	})

	inBubble(t, "With invalid attempts", func(t *testing.T) {
		require.PanicWithError(t, "attempts can't be < 1", func() {
			_ = retry.Exponential(0, time.Second, time.Minute)
		})
	})

	inBubble(t, "With invalid interval", func(t *testing.T) {
		require.PanicWithError(t, "minInterval can't be <= 0", func() {
			_ = retry.Exponential(1, 0, time.Minute)
		})
		require.PanicWithError(t, "minInterval can't be >= maxInterval", func() {
			_ = retry.Exponential(1, time.Second, time.Second)
		})
	})

	inBubble(t, "With invalid base", func(t *testing.T) {
		require.PanicWithError(t, "base can't be <= 1", func() {
			_ = retry.Exponential(1, time.Second, time.Minute).WithBase(1)
		})
	})

	inBubble(t, "With invalid jitter", func(t *testing.T) {
		require.PanicWithError(t, "jitter can't be < 0", func() {
			_ = retry.Exponential(1, time.Second, time.Minute).WithJitter(-0.1)
		})
		require.PanicWithError(t, "jitter can't be >= 1", func() {
			_ = retry.Exponential(1, time.Second, time.Minute).WithJitter(1)
		})
	})
}

func TestExponentialAttempt(t *testing.T) {
	inBubble(t, "Finite attempts", func(t *testing.T) {
		p := retry.Exponential(6, time.Second, 4*time.Second).WithJitter(0.1)
		f := expectWait(t, 0.1)
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(2*time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(4*time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(4*time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(4*time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), false) })
	})

	inBubble(t, "Base", func(t *testing.T) {
		p := retry.Exponential(4, time.Second, time.Minute).WithBase(3).WithJitter(0.1)
		f := expectWait(t, 0.1)
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(3*time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(9*time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), false) })
	})

	inBubble(t, "Context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		p := retry.Exponential(10, time.Second, time.Minute).WithJitter(0.1)
		f := expectWait(t, 0.1)
		f(0, func() { require.Equal(t, p.Attempt(ctx), true) })
		f(time.Second, func() { require.Equal(t, p.Attempt(ctx), true) })
		cancel()
		f(0, func() { require.Equal(t, p.Attempt(ctx), false) })
	})
}
