package onion

import (
	"fmt"
	"time"

	"github.com/teenjuna/onion/internal/cidutil"
	"github.com/teenjuna/onion/internal/sqlite"
)

// Record is the persisted output of a peeled layer.
type Record struct {
	// Layer is the layer that produced Data.
	Layer Layer `json:"layer"`
	// CID is the content identifier of Data (CIDv1, raw, sha2-256).
	CID string `json:"cid"`
	// Data is the layer output, which is also the carrier of the next layer.
	Data []byte `json:"data"`
	// PeeledAt is the time when the output was stored.
	PeeledAt time.Time `json:"peeled_at"`
}

// Verify checks Data against CID.
func (r *Record) Verify() error {
	if err := cidutil.Verify(r.CID, r.Data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, r.Layer, err)
	}
	return nil
}

func fromStorage(l *sqlite.Layer) Record {
	return Record{
		Layer:    Layer(l.Layer),
		CID:      l.CID,
		Data:     l.Data,
		PeeledAt: l.PeeledAt,
	}
}
