package onion_test

import (
	"testing"

	"github.com/teenjuna/onion"
	"github.com/teenjuna/onion/base85"
	"github.com/teenjuna/onion/internal/testing/require"
	"github.com/teenjuna/onion/payload"
)

func TestLayers(t *testing.T) {
	require.Equal(t, onion.Layers(), []onion.Layer{onion.Layer0, onion.Layer1, onion.Layer2})
	require.Equal(t, onion.Layer1.String(), "layer 1")
	require.Equal(t, onion.Layer2.Valid(), true)
	require.Equal(t, onion.Layer(3).Valid(), false)
	require.Equal(t, onion.Layer(-1).Valid(), false)
	require.Equal(t, onion.Layer(3).Transform() == nil, true)
}

func TestPeelMinimalCarrier(t *testing.T) {
	out, err := onion.Layer0.Peel([]byte("noise<~9jqo^~>noise"))
	require.Nil(t, err)
	require.Equal(t, out, []byte{0x4d, 0x61, 0x6e, 0x20})
}

func TestPeelLayers(t *testing.T) {
	for i, layer := range onion.Layers() {
		t.Run(layer.String(), func(t *testing.T) {
			out, err := layer.Peel(Carriers[i])
			require.Nil(t, err)
			if i+1 < len(Carriers) {
				require.Equal(t, out, Carriers[i+1])
			} else {
				require.Equal(t, out, Plain)
			}
		})
	}
}

func TestPeelKeepsCarrier(t *testing.T) {
	carrier := append([]byte(nil), Carriers[1]...)
	_, err := onion.Layer1.Peel(carrier)
	require.Nil(t, err)
	require.Equal(t, carrier, Carriers[1])
}

func TestPeelLayer1(t *testing.T) {
	out, err := onion.Layer1.Peel(base85.Encode([]byte{0x00, 0xff}))
	require.Nil(t, err)
	require.Equal(t, out, []byte{0xaa, 0x55})
}

func TestPeelLayer2ShortGroup(t *testing.T) {
	// 0x02 and 0x04 have a wrong parity bit, 0x03 and 0x05 are kept.
	out, err := onion.Layer2.Peel(base85.Encode([]byte{0x02, 0x03, 0x04, 0x05}))
	require.Nil(t, err)
	require.Equal(t, out, []byte{0x02, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00})
}

func TestPeelErrors(t *testing.T) {
	_, err := onion.Layer0.Peel([]byte("no payload here"))
	require.ErrorIs(t, err, payload.ErrMarkerNotFound)

	_, err = onion.Layer1.Peel([]byte("<~9jqo^B~>"))
	require.ErrorIs(t, err, base85.ErrDecode)

	_, err = onion.Layer(7).Peel([]byte("<~9jqo^~>"))
	require.ErrorIs(t, err, onion.ErrUnsupportedLayer)
}

func TestPeelSharedTildePayload(t *testing.T) {
	out, err := onion.Layer0.Peel([]byte("before <~> after"))
	require.Nil(t, err)
	require.Equal(t, out, []byte{})
}
