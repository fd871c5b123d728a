package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teenjuna/onion"
	"github.com/teenjuna/onion/codec"
	"github.com/teenjuna/onion/codec/gob"
	"github.com/teenjuna/onion/codec/json"
	"github.com/teenjuna/onion/codec/msgp"
)

func newExportCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored layer output to stdout as an archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archiveCodec, err := codecFor(format)
			if err != nil {
				return err
			}

			peeler, err := openStored(c)
			if err != nil {
				return err
			}
			defer func() { _ = peeler.Close() }()

			return peeler.Export(cmd.OutOrStdout(), archiveCodec)
		},
	}

	cmd.Flags().StringVar(&c.cfg.DB, "db", c.cfg.DB, "SQLite database with stored outputs")
	cmd.Flags().StringVar(&format, "format", "json", "archive format (json, gob, msgp)")

	return cmd
}

func codecFor(format string) (codec.Codec[onion.Record], error) {
	switch format {
	case "json":
		return json.New[onion.Record](), nil
	case "gob":
		return gob.New[onion.Record](), nil
	case "msgp":
		return msgp.New[onion.Record](), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
