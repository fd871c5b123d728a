package msgp

import (
	"iter"

	"github.com/teenjuna/onion/codec"
	"github.com/tinylib/msgp/msgp"
)

// Codec writes items back to back as MessagePack values. Items are serialized through the
// MarshalMsg and UnmarshalMsg methods of their pointer type.
type Codec[Item any, ItemPtr msgpable[Item]] struct {
	buf []byte
}

func New[Item any, ItemPtr msgpable[Item]]() *Codec[Item, ItemPtr] {
	return &Codec[Item, ItemPtr]{
		buf: make([]byte, 0),
	}
}

func (c *Codec[Item, ItemPtr]) Encode(items iter.Seq[Item]) ([]byte, error) {
	c.buf = c.buf[:0]
	for item := range items {
		b, err := ItemPtr(&item).MarshalMsg(c.buf)
		if err != nil {
			return nil, err
		}
		c.buf = b
	}

	out := make([]byte, len(c.buf))
	copy(out, c.buf)

	return out, nil
}

func (c *Codec[Item, ItemPtr]) Decode(data []byte, push func(Item)) error {
	for len(data) > 0 {
		var item Item
		rest, err := ItemPtr(&item).UnmarshalMsg(data)
		if err != nil {
			return err
		}
		data = rest
		push(item)
	}

	return nil
}

func (c *Codec[Item, ItemPtr]) Derive() codec.Codec[Item] {
	return New[Item, ItemPtr]()
}

type msgpable[Item any] interface {
	*Item
	msgp.Marshaler
	msgp.Unmarshaler
}
