package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newDecodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decode N [FILE]",
		Short: "Peel layer N of a carrier read from FILE or stdin",
		Long:  "decode peels a single layer without touching the database and writes the output to stdout.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := parseLayer(args[0])
			if err != nil {
				return err
			}

			var carrier []byte
			if len(args) == 2 {
				carrier, err = os.ReadFile(args[1])
			} else {
				carrier, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read carrier: %w", err)
			}

			out, err := layer.Peel(carrier)
			if err != nil {
				return err
			}
			c.logger.WithField("layer", int(layer)).WithField("out", len(out)).Debug("peeled layer")

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
