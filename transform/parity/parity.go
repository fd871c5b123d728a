// Package parity undoes the parity layer. Every byte carries 7 data bits followed by a parity
// bit. Bytes with a wrong parity bit are dropped by [Filter] and the remaining data bits are
// packed back into whole bytes by [Pack].
package parity

import (
	"encoding/binary"
	"math/bits"
	"slices"

	"github.com/teenjuna/onion/transform"
)

const (
	// GroupSize is the number of filtered bytes consumed by one packed block.
	GroupSize = 8
	// BlockSize is the number of bytes produced per group.
	BlockSize = 7
)

var (
	_ transform.Func = Filter
	_ transform.Func = Pack
	_ transform.Func = Peel
)

// Valid reports whether the lowest bit of b equals the parity of the number of ones in its
// top 7 bits.
func Valid(b byte) bool {
	ones := bits.OnesCount8(b >> 1)
	return byte(ones&1) == b&1
}

// Filter returns the valid bytes of src in their original order.
func Filter(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for _, b := range src {
		if Valid(b) {
			out = append(out, b)
		}
	}
	return out
}

// Count returns the number of valid bytes in src.
func Count(src []byte) int {
	n := 0
	for _, b := range src {
		if Valid(b) {
			n++
		}
	}
	return n
}

// Pack concatenates the top 7 bits of every byte of src into a big-endian bit stream, emitting
// one 7-byte block per group of 8 input bytes. A short final group still produces a whole block
// with its missing fields zeroed.
func Pack(src []byte) []byte {
	out := make([]byte, 0, Blocks(len(src))*BlockSize)
	for group := range slices.Chunk(src, GroupSize) {
		var acc uint64
		for i, b := range group {
			acc |= uint64(b>>1) << (7 * (7 - i))
		}

		var block [8]byte
		binary.BigEndian.PutUint64(block[:], acc)
		out = append(out, block[8-BlockSize:]...)
	}
	return out
}

// Peel filters src and packs the result.
func Peel(src []byte) []byte {
	return Pack(Filter(src))
}

// Blocks returns the number of blocks Pack emits for n filtered bytes.
func Blocks(n int) int {
	return (n + GroupSize - 1) / GroupSize
}

// Short reports whether n filtered bytes end with a partial group.
func Short(n int) bool {
	return n%GroupSize != 0
}
