package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/teenjuna/onion"
	"github.com/teenjuna/onion/internal/testing/require"
	"github.com/teenjuna/onion/source/file"
)

func TestCarrier(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "layer-0.txt"), []byte("<~9jqo^~>"), 0o644))

	source := file.New(dir)

	carrier, err := source.Carrier(t.Context(), onion.Layer0)
	require.Nil(t, err)
	require.Equal(t, string(carrier), "<~9jqo^~>")

	_, err = source.Carrier(t.Context(), onion.Layer1)
	require.ErrorIs(t, err, onion.ErrNoCarrier)
}

func TestCarrierCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := file.New(t.TempDir()).Carrier(ctx, onion.Layer0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	require.Nil(t, file.WriteOutput(dir, onion.Record{Layer: onion.Layer0, Data: []byte("next")}))

	carrier, err := file.New(dir).Carrier(t.Context(), onion.Layer1)
	require.Nil(t, err)
	require.Equal(t, string(carrier), "next")
}

func TestName(t *testing.T) {
	require.Equal(t, file.Name(onion.Layer0), "layer-0.txt")
	require.Equal(t, file.Name(onion.Layer2), "layer-2.txt")
}

func TestNew(t *testing.T) {
	require.PanicWithError(t, "dir can't be blank", func() {
		file.New("")
	})
}
