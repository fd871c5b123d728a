package gob

import (
	"bytes"
	"encoding/gob"
	"iter"
	"slices"

	"github.com/teenjuna/onion/codec"
)

// Codec writes all items as a single gob-encoded slice, so the type description is sent once
// per archive.
type Codec[Item any] struct {
	buf *bytes.Buffer
}

var _ codec.Codec[any] = (*Codec[any])(nil)

func New[Item any]() *Codec[Item] {
	return &Codec[Item]{
		buf: new(bytes.Buffer),
	}
}

func (c *Codec[Item]) Encode(items iter.Seq[Item]) ([]byte, error) {
	all := slices.Collect(items)
	if len(all) == 0 {
		return []byte{}, nil
	}

	c.buf.Reset()
	if err := gob.NewEncoder(c.buf).Encode(all); err != nil {
		return nil, err
	}

	return bytes.Clone(c.buf.Bytes()), nil
}

// Decode accepts the output of Encode. Empty data holds no items.
func (c *Codec[Item]) Decode(data []byte, push func(Item)) error {
	if len(data) == 0 {
		return nil
	}

	var all []Item
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&all); err != nil {
		return err
	}

	for _, item := range all {
		push(item)
	}

	return nil
}

func (c *Codec[Item]) Derive() codec.Codec[Item] {
	return New[Item]()
}
