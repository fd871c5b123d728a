package retry_test

import (
	"context"
	"testing"

	"github.com/teenjuna/onion/internal/testing/require"
	"github.com/teenjuna/onion/retry"
)

func TestImmediate(t *testing.T) {
	inBubble(t, "With attempts", func(t *testing.T) {
		p := retry.Immediate(5)
		require.NotNil(t, p)
	})

	inBubble(t, "With invalid attempts", func(t *testing.T) {
		require.PanicWithError(t, "attempts can't be < 1", func() {
			_ = retry.Immediate(0)
		})
	})
}

func TestImmediateAttempt(t *testing.T) {
	inBubble(t, "Finite attempts", func(t *testing.T) {
		p := retry.Immediate(2)
		require.Equal(t, p.Attempt(t.Context()), true)
		require.Equal(t, p.Attempt(t.Context()), true)
		require.Equal(t, p.Attempt(t.Context()), false)
	})

	inBubble(t, "Context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		p := retry.Immediate(5)
		require.Equal(t, p.Attempt(ctx), true)
		cancel()
		require.Equal(t, p.Attempt(ctx), false)
	})

	inBubble(t, "Derive", func(t *testing.T) {
		p := retry.Immediate(1)
		require.Equal(t, p.Attempt(t.Context()), true)
		require.Equal(t, p.Attempt(t.Context()), false)

		d := p.Derive()
		require.Equal(t, d.Attempt(t.Context()), true)
		require.Equal(t, d.Attempt(t.Context()), false)
	})
}
