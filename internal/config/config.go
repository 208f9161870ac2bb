package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"appraiser/internal/database"
)

const (
	configPathEnv = "APPRAISER_CONFIG"
	envFile       = ".env"
)

// Dataset sources.
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// Config holds everything the CLI and the HTTP server need.
type Config struct {
	Model     string         `yaml:"model"`
	Scaler    string         `yaml:"scaler"`
	Dataset   DatasetConfig  `yaml:"dataset"`
	Database  DatabaseConfig `yaml:"database"`
	Regions   RegionsConfig  `yaml:"regions"`
	Watchlist string         `yaml:"watchlist"`
	HTTP      HTTPConfig     `yaml:"http"`
	Log       LogConfig      `yaml:"log"`
	Currency  string         `yaml:"currency"`
}

// DatasetConfig selects where reference records come from.
type DatasetConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

// DatabaseConfig describes the Oracle or Postgres property table.
type DatabaseConfig struct {
	Driver         string `yaml:"driver"`
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	Service        string `yaml:"service"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	WalletLocation string `yaml:"walletLocation"`
	DSN            string `yaml:"dsn"`
	Table          string `yaml:"table"`
}

// RegionsConfig points at an optional polygon shapefile. Lookup is off when Shapefile is empty.
type RegionsConfig struct {
	Shapefile string `yaml:"shapefile"`
	NameField string `yaml:"name_field"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the .env file, the YAML file at path (or $APPRAISER_CONFIG) when one is
// given, and applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	// A missing .env is fine
	_ = loadEnvFile(envFile)

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// Fields absent from the file keep their defaults.
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Model:  "data/model.yaml",
		Scaler: "data/scaler.yaml",
		Dataset: DatasetConfig{
			Source: SourceCSV,
			Path:   "data/houses.csv",
		},
		Database: DatabaseConfig{
			Driver:  database.DriverOracle,
			Host:    "localhost",
			Port:    "1521",
			Service: "XE",
			Table:   "houses",
		},
		Regions:   RegionsConfig{NameField: "NAME"},
		Watchlist: "data/watchlist.txt",
		HTTP:      HTTPConfig{Addr: ":8080"},
		Log:       LogConfig{Level: "info", Format: "text"},
		Currency:  "₹",
	}
}

func (c *Config) applyEnvOverrides() {
	override := func(dst *string, key string) {
		*dst = getEnvOrDefault(key, *dst)
	}

	override(&c.Model, "APPRAISER_MODEL")
	override(&c.Scaler, "APPRAISER_SCALER")
	override(&c.Dataset.Path, "APPRAISER_DATASET")
	override(&c.Dataset.Source, "APPRAISER_DATASET_SOURCE")
	override(&c.Regions.Shapefile, "APPRAISER_REGIONS")
	override(&c.Watchlist, "APPRAISER_WATCHLIST")
	override(&c.HTTP.Addr, "HTTP_ADDR")
	override(&c.Log.Level, "LOG_LEVEL")
	override(&c.Log.Format, "LOG_FORMAT")

	override(&c.Database.Driver, "DB_DRIVER")
	override(&c.Database.Host, "DB_HOST")
	override(&c.Database.Port, "DB_PORT")
	override(&c.Database.Service, "DB_SERVICE")
	override(&c.Database.Username, "DB_USERNAME")
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Database.WalletLocation, "DB_WALLET_LOCATION")
	override(&c.Database.DSN, "DB_DSN")
	override(&c.Database.Table, "DB_TABLE")
}

// Validate reports every setting the loaders would reject.
func (c Config) Validate() error {
	var errs []error

	if c.Model == "" {
		errs = append(errs, errors.New("model path is required"))
	}
	if c.Scaler == "" {
		errs = append(errs, errors.New("scaler path is required"))
	}

	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.Path == "" {
			errs = append(errs, errors.New("dataset.path is required for csv source"))
		}
	case SourceDatabase:
		switch c.Database.Driver {
		case database.DriverOracle, database.DriverPostgres:
		default:
			errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
		}
		if c.Database.Table == "" {
			errs = append(errs, errors.New("database.table is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown dataset.source %q", c.Dataset.Source))
	}

	if c.Regions.Shapefile != "" && c.Regions.NameField == "" {
		errs = append(errs, errors.New("regions.name_field is required with a shapefile"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// DBConfig converts the database section for the database package.
func (c Config) DBConfig() database.DBConfig {
	return database.DBConfig{
		Driver:         c.Database.Driver,
		Host:           c.Database.Host,
		Port:           c.Database.Port,
		Service:        c.Database.Service,
		Username:       c.Database.Username,
		Password:       c.Database.Password,
		WalletLocation: c.Database.WalletLocation,
		DSN:            c.Database.DSN,
		Table:          c.Database.Table,
	}
}

// loadEnvFile reads environment variables from a .env file
func loadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key=value format
		if idx := strings.Index(line, "="); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])

			// Remove quotes if present
			if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"') {
				value = value[1 : len(value)-1]
			}

			// Only set if not already set in environment
			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	}

	return scanner.Err()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
