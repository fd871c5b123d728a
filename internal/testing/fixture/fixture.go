// Package fixture builds onions for tests: carriers shaped like the published ones, wrapped
// around any plaintext.
package fixture

import (
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/teenjuna/onion/base85"
	"github.com/teenjuna/onion/transform/xorrotate"
)

// Onion returns the carriers of layers 0, 1 and 2 whose innermost output is plain. Every layer
// is undone in reverse order, so peeling the carriers one after another gives plain back when
// its length is a multiple of 7.
func Onion(plain []byte) [][]byte {
	c2 := Carrier("==[ Layer 2/6: Parity Bit ]==", AddParity(plain))
	c1 := Carrier("==[ Layer 1/6: Bitwise Operations ]==", xorrotate.Unapply(c2))
	c0 := Carrier("==[ Layer 0/6: ASCII85 ]==", c1)
	return [][]byte{c0, c1, c2}
}

// Carrier encodes data the way the published onion does: a header, some prose and the payload
// broken into lines of 60 characters.
func Carrier(header string, data []byte) []byte {
	encoded := string(base85.Encode(data))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\nSome instructions for this layer.\n\n")
	for len(encoded) > 60 {
		b.WriteString(encoded[:60])
		b.WriteString("\n")
		encoded = encoded[60:]
	}
	b.WriteString(encoded)
	b.WriteString("\n")

	return []byte(b.String())
}

// AddParity turns every 7 bytes of data into 8 bytes carrying 7 data bits and a parity bit
// each. Every valid byte is followed by one with a flipped parity bit. A partial trailing chunk
// of data is spread into as many bytes as it has 7-bit fields.
func AddParity(data []byte) []byte {
	out := make([]byte, 0, len(data)*3)
	for i := 0; i < len(data); i += 7 {
		chunk := data[i:min(i+7, len(data))]

		var block [8]byte
		copy(block[1:], chunk)
		acc := binary.BigEndian.Uint64(block[:])

		fields := (len(chunk)*8 + 6) / 7
		for j := range fields {
			v := byte(acc>>(7*(7-j))) & 0x7f
			b := v<<1 | byte(bits.OnesCount8(v)&1)
			out = append(out, b, b^1)
		}
	}
	return out
}
