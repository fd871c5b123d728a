package onion

import (
	"errors"
	"fmt"

	"github.com/teenjuna/onion/base85"
	"github.com/teenjuna/onion/payload"
	"github.com/teenjuna/onion/transform"
	"github.com/teenjuna/onion/transform/parity"
	"github.com/teenjuna/onion/transform/xorrotate"
)

var (
	ErrUnsupportedLayer = errors.New("unsupported layer")
)

// Layer identifies one layer of the onion. The output of a layer is the carrier of the next.
type Layer int

const (
	// Layer0 is plain ASCII85.
	Layer0 Layer = iota
	// Layer1 is ASCII85 followed by a per-byte XOR and right rotation.
	Layer1
	// Layer2 is ASCII85 followed by parity filtering and 7-bit packing.
	Layer2

	layerCount = iota
)

var transforms = [layerCount]transform.Func{
	Layer0: transform.Chain(),
	Layer1: xorrotate.Apply,
	Layer2: transform.Chain(parity.Filter, parity.Pack),
}

// Layers returns every supported layer in peeling order.
func Layers() []Layer {
	layers := make([]Layer, layerCount)
	for i := range layers {
		layers[i] = Layer(i)
	}
	return layers
}

// Valid reports whether the layer is supported.
func (l Layer) Valid() bool {
	return l >= 0 && l < layerCount
}

func (l Layer) String() string {
	return fmt.Sprintf("layer %d", int(l))
}

// Transform returns the function applied to the decoded payload of the layer, or nil if the
// layer is not supported.
func (l Layer) Transform() transform.Func {
	if !l.Valid() {
		return nil
	}
	return transforms[l]
}

// Peel extracts the payload of the carrier, decodes it and applies the layer's transform.
// It has no side effects and never modifies carrier.
func (l Layer) Peel(carrier []byte) ([]byte, error) {
	out, _, err := l.peel(carrier)
	return out, err
}

// peelStats describes the intermediate buffers of a peel.
type peelStats struct {
	decoded  int
	filtered int
}

func (l Layer) peel(carrier []byte) ([]byte, peelStats, error) {
	var st peelStats
	if !l.Valid() {
		return nil, st, fmt.Errorf("%w: %d", ErrUnsupportedLayer, int(l))
	}

	p, err := payload.Extract(carrier)
	if err != nil {
		return nil, st, fmt.Errorf("%s: extract payload: %w", l, err)
	}

	decoded, err := base85.Decode(p)
	if err != nil {
		return nil, st, fmt.Errorf("%s: decode: %w", l, err)
	}
	st.decoded = len(decoded)
	if l == Layer2 {
		st.filtered = parity.Count(decoded)
	}

	return transforms[l](decoded), st, nil
}
