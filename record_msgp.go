package onion

import (
	"github.com/tinylib/msgp/msgp"
)

var (
	_ msgp.Marshaler   = (*Record)(nil)
	_ msgp.Unmarshaler = (*Record)(nil)
	_ msgp.Sizer       = (*Record)(nil)
)

// MarshalMsg implements msgp.Marshaler.
func (r *Record) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, r.Msgsize())
	o = msgp.AppendMapHeader(o, 4)
	o = msgp.AppendString(o, "layer")
	o = msgp.AppendInt(o, int(r.Layer))
	o = msgp.AppendString(o, "cid")
	o = msgp.AppendString(o, r.CID)
	o = msgp.AppendString(o, "data")
	o = msgp.AppendBytes(o, r.Data)
	o = msgp.AppendString(o, "peeled_at")
	o = msgp.AppendTime(o, r.PeeledAt)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler. Unknown fields are skipped.
func (r *Record) UnmarshalMsg(bts []byte) ([]byte, error) {
	fields, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err)
	}

	for range fields {
		var field []byte
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, msgp.WrapError(err)
		}

		switch msgp.UnsafeString(field) {
		case "layer":
			var layer int
			layer, bts, err = msgp.ReadIntBytes(bts)
			r.Layer = Layer(layer)
		case "cid":
			r.CID, bts, err = msgp.ReadStringBytes(bts)
		case "data":
			r.Data, bts, err = msgp.ReadBytesBytes(bts, r.Data[:0])
		case "peeled_at":
			r.PeeledAt, bts, err = msgp.ReadTimeBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, msgp.WrapError(err, string(field))
		}
	}

	return bts, nil
}

// Msgsize returns an upper bound of the encoded size.
func (r *Record) Msgsize() int {
	return msgp.MapHeaderSize +
		msgp.StringPrefixSize + len("layer") + msgp.IntSize +
		msgp.StringPrefixSize + len("cid") + msgp.StringPrefixSize + len(r.CID) +
		msgp.StringPrefixSize + len("data") + msgp.BytesPrefixSize + len(r.Data) +
		msgp.StringPrefixSize + len("peeled_at") + msgp.TimeSize
}
