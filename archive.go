package onion

import (
	"fmt"
	"io"
	"slices"

	"github.com/teenjuna/onion/codec"
)

// Export writes the stored outputs of all peeled layers to w, encoded with c.
func (p *Peeler) Export(w io.Writer, c codec.Codec[Record]) error {
	records, err := p.Records()
	if err != nil {
		return err
	}

	data, err := c.Encode(slices.Values(records))
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	return nil
}

// ReadArchive decodes records written by [Peeler.Export] and checks each against its CID.
func ReadArchive(data []byte, c codec.Codec[Record]) ([]Record, error) {
	records := make([]Record, 0)
	if err := c.Decode(data, func(r Record) {
		records = append(records, r)
	}); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	for i := range records {
		if err := records[i].Verify(); err != nil {
			return nil, err
		}
	}

	return records, nil
}
