// Package payload isolates the ASCII85 payload embedded in a layer's text.
package payload

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// StartMarker opens a payload.
	StartMarker = "<~"
	// EndMarker closes a payload.
	EndMarker = "~>"
)

var (
	// ErrMarkerNotFound is matched by every [MarkerNotFoundError].
	ErrMarkerNotFound = errors.New("marker not found")
)

// MarkerNotFoundError is returned by [Extract] when the carrier lacks one of the markers.
type MarkerNotFoundError struct {
	// Marker is the marker that could not be found.
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMarkerNotFound, e.Marker)
}

func (e *MarkerNotFoundError) Is(target error) bool {
	return target == ErrMarkerNotFound
}

// Extract returns the first payload of the carrier, markers included, with all whitespace
// removed. The end marker is searched for starting at the start marker, so the two may share
// the tilde in "<~>". Anything after the end marker is ignored.
func Extract(carrier []byte) ([]byte, error) {
	start := bytes.Index(carrier, []byte(StartMarker))
	if start < 0 {
		return nil, &MarkerNotFoundError{Marker: StartMarker}
	}

	end := bytes.Index(carrier[start:], []byte(EndMarker))
	if end < 0 {
		return nil, &MarkerNotFoundError{Marker: EndMarker}
	}
	end += start + len(EndMarker)

	out := make([]byte, 0, end-start)
	for _, b := range carrier[start:end] {
		if isSpace(b) {
			continue
		}
		out = append(out, b)
	}

	return out, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
