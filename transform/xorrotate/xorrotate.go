// Package xorrotate undoes the bitwise layer: every byte is XORed with [Mask] and then rotated
// right by one bit.
package xorrotate

import (
	"math/bits"

	"github.com/teenjuna/onion/transform"
)

// Mask is XORed with every byte before the rotation.
const Mask byte = 0b01010101

var _ transform.Func = Apply

// Apply returns a new slice with every byte of src XORed with Mask and rotated right by one.
func Apply(src []byte) []byte {
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = Byte(b)
	}
	return out
}

// Unapply is the inverse of Apply.
func Unapply(src []byte) []byte {
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = bits.RotateLeft8(b, 1) ^ Mask
	}
	return out
}

// Byte transforms a single byte.
func Byte(b byte) byte {
	x := b ^ Mask
	return (x >> 1) | ((x & 1) << 7)
}
