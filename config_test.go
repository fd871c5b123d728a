package onion_test

import (
	"testing"

	"github.com/teenjuna/onion"
	"github.com/teenjuna/onion/internal/testing/require"
)

func TestOptions(t *testing.T) {
	require.PanicWithError(t, "file can't be nil", func() {
		onion.WithFile(nil)
	})

	require.PanicWithError(t, "policy can't be nil", func() {
		onion.WithRetryPolicy(nil)
	})

	require.PanicWithError(t, "depth can't be < 1", func() {
		onion.WithDepth(0)
	})

	require.PanicWithError(t, "depth can't exceed the number of layers", func() {
		onion.WithDepth(len(onion.Layers()) + 1)
	})

	require.PanicWithError(t, "prometheus can't be nil", func() {
		onion.WithPrometheus(nil)
	})

	require.PanicWithError(t, "logger can't be nil", func() {
		onion.WithLogger(nil)
	})
}
