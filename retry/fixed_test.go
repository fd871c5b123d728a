package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/teenjuna/onion/internal/testing/require"
	"github.com/teenjuna/onion/retry"
)

func TestFixed(t *testing.T) {
	inBubble(t, "With attempts", func(t *testing.T) {
		p := retry.Fixed(5, time.Second)
		require.NotNil(t, p)
	})

	inBubble(t, "With attempts and jitter", func(t *testing.T) {
		p := retry.Fixed(5, time.Second).WithJitter(0.2)
		require.NotNil(t, p)
	})

	inBubble(t, "With invalid attempts", func(t *testing.T) {
		require.PanicWithError(t, "attempts can't be < 1", func() {
			_ = retry.Fixed(0, time.Second)
		})
	})

	inBubble(t, "With invalid interval", func(t *testing.T) {
		require.PanicWithError(t, "interval can't be < 0", func() {
			_ = retry.Fixed(1, -1)
		})
	})

	inBubble(t, "With invalid jitter", func(t *testing.T) {
		require.PanicWithError(t, "jitter can't be < 0", func() {
			_ = retry.Fixed(1, time.Second).WithJitter(-0.1)
		})
		require.PanicWithError(t, "jitter can't be >= 1", func() {
			_ = retry.Fixed(1, time.Second).WithJitter(1)
		})
	})
}

func TestFixedAttempt(t *testing.T) {
	inBubble(t, "Finite attempts (immediate)", func(t *testing.T) {
		p := retry.Fixed(3, 0).WithJitter(0.1)
		f := expectWait(t, 0.1)
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), false) })
	})

	inBubble(t, "Finite attempts (second)", func(t *testing.T) {
		p := retry.Fixed(3, time.Second).WithJitter(0.1)
		f := expectWait(t, 0.1)
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(time.Second, func() { require.Equal(t, p.Attempt(t.Context()), true) })
		f(0, func() { require.Equal(t, p.Attempt(t.Context()), false) })
	})

	inBubble(t, "Context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		p := retry.Fixed(10, time.Second).WithJitter(0.1)
		f := expectWait(t, 0.1)
		f(0, func() { require.Equal(t, p.Attempt(ctx), true) })
		f(time.Second, func() { require.Equal(t, p.Attempt(ctx), true) })
		cancel()
		f(0, func() { require.Equal(t, p.Attempt(ctx), false) })
	})

	inBubble(t, "Derive", func(t *testing.T) {
		p := retry.Fixed(1, time.Second)
		require.Equal(t, p.Attempt(t.Context()), true)
		require.Equal(t, p.Attempt(t.Context()), false)

		d := p.Derive()
		require.Equal(t, d.Attempt(t.Context()), true)
		require.Equal(t, d.Attempt(t.Context()), false)
	})
}
