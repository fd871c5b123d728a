package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns a CIDv1 using the raw multicodec and a sha2-256 multihash of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Verify checks that id was derived from data.
func Verify(id string, data []byte) error {
	want, err := cid.Decode(id)
	if err != nil {
		return fmt.Errorf("decode cid: %w", err)
	}

	got, err := want.Prefix().Sum(data)
	if err != nil {
		return fmt.Errorf("sum: %w", err)
	}

	if !got.Equals(want) {
		return fmt.Errorf("cid mismatch: want %s, got %s", want, got)
	}

	return nil
}
