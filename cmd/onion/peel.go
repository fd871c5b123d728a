package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teenjuna/onion"
	"github.com/teenjuna/onion/retry"
	"github.com/teenjuna/onion/source/file"
	"github.com/teenjuna/onion/source/web"
)

func newPeelCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peel",
		Short: "Peel every layer and store the outputs",
		Long: "peel fetches the first carrier, peels every layer and stores the outputs in the " +
			"database. Carriers are read from --dir instead of the web when it is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeel(cmd.Context(), c, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&c.cfg.URL, "url", c.cfg.URL, "page publishing the onion")
	flags.StringVar(&c.cfg.Dir, "dir", c.cfg.Dir, "directory with layer-N.txt carriers, used instead of --url")
	flags.StringVar(&c.cfg.DB, "db", c.cfg.DB, "SQLite database caching carriers and outputs")
	flags.BoolVar(&c.cfg.Durable, "durable", c.cfg.Durable, "sync every database write to disk")
	flags.StringVar(&c.cfg.Out, "out", c.cfg.Out, "directory to write layer outputs to as layer-N.txt")
	flags.IntVar(&c.cfg.Retries, "retries", c.cfg.Retries, "attempts to fetch the first carrier")
	flags.StringVar(&c.cfg.MetricsAddr, "metrics-addr", c.cfg.MetricsAddr, "address to serve Prometheus metrics on")

	return cmd
}

func runPeel(ctx context.Context, c *cli, stdout io.Writer) (err error) {
	if c.cfg.Retries < 1 {
		return errors.New("retries can't be < 1")
	}

	var source onion.Source
	if c.cfg.Dir != "" {
		source = file.New(c.cfg.Dir)
	} else {
		source = web.New(c.cfg.URL)
	}

	registry := prometheus.NewRegistry()
	peeler, err := onion.New(
		source,
		onion.WithFile(onion.File(c.cfg.DB).Durable(c.cfg.Durable)),
		onion.WithRetryPolicy(retry.Exponential(c.cfg.Retries, time.Second, 10*time.Second)),
		onion.WithPrometheus(onion.Prometheus(registry)),
		onion.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := peeler.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := peeler.Peel(ctx)
		if err != nil {
			return err
		}

		for _, record := range records {
			fmt.Fprintf(stdout, "%s\t%s\t%d\n", record.Layer, record.CID, len(record.Data))
			if c.cfg.Out == "" {
				continue
			}
			if err := file.WriteOutput(c.cfg.Out, record); err != nil {
				return err
			}
		}

		if c.cfg.MetricsAddr != "" {
			c.logger.WithField("addr", c.cfg.MetricsAddr).Info("peeled every layer, serving metrics until interrupted")
		}
		return nil
	})

	if c.cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr:              c.cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	// Once every layer is peeled, canceling ctx only stops the metrics server, which then
	// returns nil. Any other cancellation surfaces from Peel.
	return g.Wait()
}
