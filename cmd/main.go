package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"appraiser/internal/artifacts"
	"appraiser/internal/config"
	"appraiser/internal/database"
	"appraiser/internal/dataset"
	"appraiser/internal/logging"
	"appraiser/internal/regions"
	"appraiser/internal/valuation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions carries the persistent flags to every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "appraiser",
		Short:        "Estimate fair prices for residential properties and flag over or under valued listings",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $APPRAISER_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")

	cmd.AddCommand(
		predictCmd(opts),
		compareCmd(opts),
		rankCmd(opts),
		browseCmd(opts),
		watchlistCmd(opts),
		serveCmd(opts),
	)
	return cmd
}

// app is everything a subcommand needs, loaded once per invocation.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	engine  *valuation.Engine
	store   *dataset.Store // nil when the command runs without a dataset
	regions *regions.Index // nil when no shapefile is configured
	theme   theme
}

// loadApp reads configuration and artifacts and builds the engine. The reference dataset
// is only loaded when withDataset is set.
func loadApp(ctx context.Context, opts *rootOptions, withDataset bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	model, err := artifacts.LoadModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	scaler, err := artifacts.LoadScaler(cfg.Scaler)
	if err != nil {
		return nil, err
	}
	log.Debug("artifacts loaded", "model", cfg.Model, "scaler", cfg.Scaler, "scaler_kind", scaler.Kind())

	a := &app{cfg: cfg, log: log, theme: defaultTheme()}
	bundle := valuation.Bundle{Model: model, Transform: scaler}

	if withDataset {
		start := time.Now()
		store, err := loadDataset(ctx, cfg, log.With("component", "dataset"))
		if err != nil {
			return nil, err
		}
		log.Info("dataset ready", "records", store.Len(), "elapsed", time.Since(start).Truncate(time.Millisecond))
		a.store = store
		bundle.Dataset = store
	}

	if cfg.Regions.Shapefile != "" {
		ix, err := regions.Open(cfg.Regions.Shapefile, cfg.Regions.NameField)
		if err != nil {
			// Regions are decoration; carry on without them.
			log.Warn("region lookup disabled", "error", err)
		} else {
			log.Debug("regions loaded", "count", ix.Len())
			a.regions = ix
		}
	}

	engine, err := valuation.New(bundle, log.With("component", "valuation"))
	if err != nil {
		return nil, err
	}
	a.engine = engine
	return a, nil
}

func loadDataset(ctx context.Context, cfg config.Config, log *slog.Logger) (*dataset.Store, error) {
	switch cfg.Dataset.Source {
	case config.SourceDatabase:
		db, err := database.NewDatabase(ctx, cfg.DBConfig(), log)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		res, err := db.LoadRecords(ctx)
		if err != nil {
			return nil, err
		}
		return res.Store, nil
	default:
		res, err := dataset.LoadCSV(cfg.Dataset.Path, log)
		if err != nil {
			return nil, err
		}
		return res.Store, nil
	}
}

// region names the region containing the point, or "" when unknown.
func (a *app) region(lat, lon float64) string {
	name, _ := a.regions.Lookup(lat, lon)
	return name
}
