package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"appraiser/internal/api"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions and valuations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx, opts, true)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}

			h := &api.Handlers{
				Log:     a.log.With("component", "api"),
				Engine:  a.engine,
				Metrics: api.NewMetrics(),
			}
			if a.regions != nil {
				h.Regions = a.regions
			}
			srv := api.NewServer(addr, a.log, h)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return c
}
