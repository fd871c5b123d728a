// Package file keeps layer carriers as layer-N.txt files in a directory. Layer N's carrier
// lives in layer-N.txt, so the output of layer N is written to layer-(N+1).txt.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/teenjuna/onion"
)

var _ onion.Source = (*Source)(nil)

// Source reads carriers from a directory.
type Source struct {
	dir string
}

func New(dir string) *Source {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		panic("dir can't be blank")
	}
	return &Source{dir: dir}
}

// Carrier returns the content of layer-N.txt, or [onion.ErrNoCarrier] if the file is missing.
func (s *Source) Carrier(ctx context.Context, layer onion.Layer) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, Name(layer)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", onion.ErrNoCarrier, layer)
	} else if err != nil {
		return nil, fmt.Errorf("read carrier: %w", err)
	}

	return data, nil
}

// Name returns the file name holding the carrier of a layer.
func Name(layer onion.Layer) string {
	return fmt.Sprintf("layer-%d.txt", int(layer))
}

// WriteOutput writes the output of a layer as the carrier of the next one.
func WriteOutput(dir string, record onion.Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	path := filepath.Join(dir, Name(record.Layer+1))
	if err := os.WriteFile(path, record.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
