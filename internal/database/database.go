package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/sijms/go-ora/v2"

	"appraiser/internal/dataset"
	"appraiser/internal/types"
)

// Supported drivers, named as registered with database/sql.
const (
	DriverOracle   = "oracle"
	DriverPostgres = "postgres"
)

// Columns of the property table, in feature-schema order between id and price.
var propertyColumns = []string{
	"id",
	"bedrooms",
	"bathrooms",
	"living_area",
	"waterfront",
	"house_condition",
	"airport_distance_km",
	"schools_nearby",
	"latitude",
	"longitude",
	"price",
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)

// DBConfig holds database connection configuration
type DBConfig struct {
	Driver         string
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
	DSN            string // used verbatim when set
	Table          string
}

// dsn builds a properly encoded connection string for the configured driver
func dsn(cfg DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	if cfg.Driver == DriverPostgres {
		return (&url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.Username, cfg.Password),
			Host:     cfg.Host + ":" + cfg.Port,
			Path:     "/" + cfg.Service,
			RawQuery: "sslmode=require",
		}).String()
	}

	if cfg.WalletLocation != "" {
		// Use wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(cfg.Username), url.PathEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Service, url.PathEscape(cfg.WalletLocation))
	}

	// Fallback to standard connection without wallet
	return (&url.URL{
		Scheme:   "oracle",
		User:     url.UserPassword(cfg.Username, cfg.Password), // escapes automatically
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Service, // keep full service name
		RawQuery: "ssl=true",        // ADB requires TCPS on 1522
	}).String()
}

// Database holds the database connection and configuration
type Database struct {
	db     *sql.DB
	config DBConfig
	log    *slog.Logger
}

// NewDatabase opens and pings a connection for the configured driver
func NewDatabase(ctx context.Context, config DBConfig, log *slog.Logger) (*Database, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if _, err := selectRecords(config); err != nil {
		return nil, err
	}

	log.Info("connecting to property database", "driver", config.Driver, "host", config.Host, "service", config.Service)

	db, err := sql.Open(config.Driver, dsn(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		db:     db,
		config: config,
		log:    log,
	}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// selectRecords builds the property query with the driver's placeholder style
func selectRecords(cfg DBConfig) (sq.SelectBuilder, error) {
	if !tableName.MatchString(cfg.Table) {
		return sq.SelectBuilder{}, fmt.Errorf("invalid table name %q", cfg.Table)
	}

	var format sq.PlaceholderFormat
	switch cfg.Driver {
	case DriverOracle:
		format = sq.Colon
	case DriverPostgres:
		format = sq.Dollar
	default:
		return sq.SelectBuilder{}, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	return sq.Select(propertyColumns...).
		From(cfg.Table).
		Where(sq.NotEq{"price": nil}).
		OrderBy("id").
		PlaceholderFormat(format), nil
}

// LoadRecords reads every property row. Rows outside the feature domains are skipped
// and counted, matching the CSV loader.
func (d *Database) LoadRecords(ctx context.Context) (dataset.LoadResult, error) {
	builder, err := selectRecords(d.config)
	if err != nil {
		return dataset.LoadResult{}, err
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return dataset.LoadResult{}, fmt.Errorf("build property query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return dataset.LoadResult{}, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var (
		records []types.PropertyRecord
		skipped int
	)
	for rows.Next() {
		var (
			id    int64
			vals  = make([]float64, types.NumFeatures)
			price float64
		)
		dest := []any{&id}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		dest = append(dest, &price)

		if err := rows.Scan(dest...); err != nil {
			return dataset.LoadResult{}, fmt.Errorf("failed to scan property: %w", err)
		}

		f, err := dataset.FeaturesFromValues(vals)
		if err != nil {
			skipped++
			d.log.Warn("skipping property row", "id", id, "error", err)
			continue
		}
		records = append(records, types.PropertyRecord{ID: id, Features: f, Price: price})
	}
	if err := rows.Err(); err != nil {
		return dataset.LoadResult{}, fmt.Errorf("failed to read properties: %w", err)
	}

	store, err := dataset.NewStore(records)
	if err != nil {
		return dataset.LoadResult{}, err
	}
	d.log.Info("dataset loaded", "records", store.Len(), "skipped", skipped, "table", d.config.Table)
	return dataset.LoadResult{Store: store, Skipped: skipped}, nil
}
