package main

import (
	"github.com/spf13/cobra"
)

func newLayerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layer N",
		Short: "Print the stored output of layer N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := parseLayer(args[0])
			if err != nil {
				return err
			}

			peeler, err := openStored(c)
			if err != nil {
				return err
			}
			defer func() { _ = peeler.Close() }()

			record, err := peeler.Record(layer)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(record.Data)
			return err
		},
	}

	cmd.Flags().StringVar(&c.cfg.DB, "db", c.cfg.DB, "SQLite database with stored outputs")

	return cmd
}
