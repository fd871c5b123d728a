package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teenjuna/onion"
)

type cli struct {
	cfg        Config
	configPath string
	logger     *logrus.Logger
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	c := cli{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:           "onion",
		Short:         "Peel Tom's Data Onion",
		Long:          "onion downloads the data onion puzzle and peels its layers one after another.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			resolve(cmd, &c.cfg, loaded)

			level, err := logrus.ParseLevel(c.cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}

			c.logger = logrus.New()
			c.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			c.logger.SetOutput(cmd.ErrOrStderr())
			c.logger.SetLevel(level)

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newPeelCmd(&c),
		newLayerCmd(&c),
		newDecodeCmd(&c),
		newExportCmd(&c),
	)

	return rootCmd
}

// resolve copies loaded settings into dst for every flag the user did not set.
func resolve(cmd *cobra.Command, dst *Config, loaded Config) {
	changed := cmd.Flags().Changed
	if !changed("url") {
		dst.URL = loaded.URL
	}
	if !changed("dir") {
		dst.Dir = loaded.Dir
	}
	if !changed("db") {
		dst.DB = loaded.DB
	}
	if !changed("durable") {
		dst.Durable = loaded.Durable
	}
	if !changed("out") {
		dst.Out = loaded.Out
	}
	if !changed("retries") {
		dst.Retries = loaded.Retries
	}
	if !changed("metrics-addr") {
		dst.MetricsAddr = loaded.MetricsAddr
	}
	if !changed("log-level") {
		dst.LogLevel = loaded.LogLevel
	}
}

// parseLayer parses a layer number given on the command line.
func parseLayer(arg string) (onion.Layer, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("parse layer %q: %w", arg, err)
	}
	layer := onion.Layer(n)
	if !layer.Valid() {
		return 0, fmt.Errorf("%w: %d", onion.ErrUnsupportedLayer, n)
	}
	return layer, nil
}

// openStored opens the database of earlier runs without a way to fetch new carriers.
func openStored(c *cli) (*onion.Peeler, error) {
	source := onion.SourceFunc(func(ctx context.Context, layer onion.Layer) ([]byte, error) {
		return nil, fmt.Errorf("%w: %s", onion.ErrNoCarrier, layer)
	})
	return onion.New(
		source,
		onion.WithFile(onion.File(c.cfg.DB)),
		onion.WithLogger(c.logger),
	)
}
