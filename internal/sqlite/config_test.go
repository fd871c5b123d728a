package sqlite_test

import (
	"testing"

	"github.com/teenjuna/onion/internal/sqlite"
	"github.com/teenjuna/onion/internal/testing/require"
)

func TestOptionValidation(t *testing.T) {
	cfg := &sqlite.Config{}

	require.PanicWithError(t, "URI can't be blank", func() {
		cfg.URI(" ")
	})

	require.PanicWithError(t, "URI is invalid", func() {
		cfg.URI("%zz")
	})
}
