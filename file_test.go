package onion

import (
	"testing"

	"github.com/teenjuna/onion/internal/testing/require"
)

func TestURI(t *testing.T) {
	require.Equal(t, (*FileConfig)(nil).uri(), ":memory:")
	require.Equal(t, File("myfile").uri(), "myfile")
	require.Equal(t, File(" myfile ").uri(), "myfile")
	require.Equal(t, File("myfile?foo=bar").uri(), "myfile")
	require.Equal(t, File("myfile").Durable(true).uri(), "myfile?_sync=full")
	require.Equal(t, File("myfile?foo=bar").Durable(true).uri(), "myfile?_sync=full")
	require.Equal(t, File("/var/lib/onion.db").Durable(false).uri(), "/var/lib/onion.db")
}

func TestFileValidation(t *testing.T) {
	require.PanicWithError(t, "file can't be blank", func() {
		_ = File(" ")
	})
}
