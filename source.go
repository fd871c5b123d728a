package onion

import (
	"context"
	"errors"
)

var (
	// ErrNoCarrier is returned by a [Source] that has no carrier for the requested layer.
	ErrNoCarrier = errors.New("no carrier for layer")
)

// Source provides the carrier text of a layer, for example by downloading it.
//
// A Source is only asked for a layer's carrier when no earlier layer output or cached copy
// can provide it.
type Source interface {
	Carrier(ctx context.Context, layer Layer) ([]byte, error)
}

// SourceFunc adapts a function to the [Source] interface.
type SourceFunc func(ctx context.Context, layer Layer) ([]byte, error)

func (f SourceFunc) Carrier(ctx context.Context, layer Layer) ([]byte, error) {
	return f(ctx, layer)
}
