// Package base85 implements the Adobe variant of ASCII85: payloads are bracketed by "<~" and
// "~>" and a single 'z' stands for a group of four zero bytes.
package base85

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	prefix = "<~"
	suffix = "~>"
)

var (
	// ErrDecode is matched by every [DecodeError].
	ErrDecode = errors.New("illegal base85 data")
)

// DecodeError describes malformed input. Offset is relative to the start of the bracketed
// input passed to [Decode].
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at input byte %d: %s", ErrDecode, e.Offset, e.Reason)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Decode decodes a bracketed payload. The "~>" terminator is required and the "<~" opener is
// optional. ASCII whitespace between digits is ignored. "<~>" decodes to nothing.
//
// A final group of n (2..4) digits is padded with 'u' and yields n-1 bytes. 'u' is the largest
// digit, which keeps the truncated high bytes correct.
func Decode(src []byte) ([]byte, error) {
	if !bytes.HasSuffix(src, []byte(suffix)) {
		return nil, &DecodeError{Offset: len(src), Reason: "missing " + suffix}
	}

	// The markers may share the tilde, as in "<~>".
	base, end := 0, len(src)-len(suffix)
	if bytes.HasPrefix(src, []byte(prefix)) {
		base = len(prefix)
	}
	body := src[base:max(base, end)]

	var (
		dst   = make([]byte, 0, (len(body)+4)/5*4)
		v     uint64
		nb    int
		start int
	)
	for i, c := range body {
		switch {
		case isSpace(c):
			continue
		case c == 'z':
			if nb != 0 {
				return nil, &DecodeError{Offset: base + i, Reason: "'z' inside a group"}
			}
			dst = append(dst, 0, 0, 0, 0)
			continue
		case '!' <= c && c <= 'u':
			if nb == 0 {
				start = base + i
			}
			v = v*85 + uint64(c-'!')
			nb++
		default:
			return nil, &DecodeError{Offset: base + i, Reason: fmt.Sprintf("invalid character %q", c)}
		}

		if nb == 5 {
			if v > math.MaxUint32 {
				return nil, &DecodeError{Offset: start, Reason: "group overflows 32 bits"}
			}
			dst = binary.BigEndian.AppendUint32(dst, uint32(v))
			v, nb = 0, 0
		}
	}

	switch {
	case nb == 1:
		return nil, &DecodeError{Offset: start, Reason: "final group of a single character"}
	case nb > 1:
		for range 5 - nb {
			v = v*85 + 84
		}
		if v > math.MaxUint32 {
			return nil, &DecodeError{Offset: start, Reason: "group overflows 32 bits"}
		}
		var group [4]byte
		binary.BigEndian.PutUint32(group[:], uint32(v))
		dst = append(dst, group[:nb-1]...)
	}

	return dst, nil
}

// Encode encodes src as a bracketed payload without line breaks. Whole groups of zero bytes
// are written as 'z'.
func Encode(src []byte) []byte {
	dst := make([]byte, 0, len(prefix)+(len(src)+3)/4*5+len(suffix))
	dst = append(dst, prefix...)

	for len(src) > 0 {
		var group [4]byte
		n := copy(group[:], src)
		src = src[n:]

		v := binary.BigEndian.Uint32(group[:])
		if v == 0 && n == 4 {
			dst = append(dst, 'z')
			continue
		}

		var digits [5]byte
		for i := 4; i >= 0; i-- {
			digits[i] = '!' + byte(v%85)
			v /= 85
		}
		dst = append(dst, digits[:n+1]...)
	}

	return append(dst, suffix...)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
