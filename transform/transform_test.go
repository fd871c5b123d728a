package transform_test

import (
	"testing"

	"github.com/teenjuna/onion/internal/testing/require"
	"github.com/teenjuna/onion/transform"
)

func TestChain(t *testing.T) {
	var (
		double = func(src []byte) []byte { return append(src, src...) }
		incr   = func(src []byte) []byte {
			out := make([]byte, len(src))
			for i, b := range src {
				out[i] = b + 1
			}
			return out
		}
	)

	require.Equal(t, transform.Chain(incr, double)([]byte{1, 2}), []byte{2, 3, 2, 3})
	require.Equal(t, transform.Chain(double, incr)([]byte{1}), []byte{2, 2})
}

func TestChainEmptyCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	out := transform.Chain()(src)
	require.Equal(t, out, src)

	out[0] = 9
	require.Equal(t, src[0], byte(1))
}
