// Package config loads the Plotboard server configuration from a YAML file,
// with environment overrides for credentials so secrets never need to live
// in the file.
package config

import (
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/plotboard/plotboard/internal/database"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/filestore"
)

// Source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
)

// Storage kinds.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Config is the full server configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Source  SourceConfig  `yaml:"source"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// LoggingConfig configures the process-wide logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	TimeFormat string `yaml:"time_format"`
}

// SourceConfig names where the session's dataset comes from.
type SourceConfig struct {
	// Kind is csv, postgres, or mysql.
	Kind string `yaml:"kind"`

	// Name is the dataset name used for the inferred data model and saved
	// documents. Defaults to the table name, or the CSV file's base name.
	Name string `yaml:"name"`

	// CSVPath is the file to ingest when Kind is csv.
	CSVPath string `yaml:"csv_path"`

	// Table and RowLimit apply to the database kinds.
	Table    string `yaml:"table"`
	RowLimit int    `yaml:"row_limit"`

	Database *database.Config `yaml:"database"`
}

// StorageConfig names where report documents and captures are persisted.
type StorageConfig struct {
	// Kind is local or minio.
	Kind string `yaml:"kind"`

	// LocalDir is the document directory when Kind is local.
	LocalDir string `yaml:"local_dir"`

	Object *filestore.Config `yaml:"object"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when a field is absent from the
// file: CSV ingestion, local-directory persistence, info-level JSON logs.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			TimeFormat: "rfc3339",
		},
		Source: SourceConfig{
			Kind:     SourceCSV,
			CSVPath:  "data.csv",
			RowLimit: database.DefaultRowLimit,
		},
		Storage: StorageConfig{
			Kind:     StorageLocal,
			LocalDir: "plotboard-data",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads path, overlays it onto Default, applies environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindNotFound, "read config file", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindDeserialization, "parse config file", err)
	}
	cfg.applyEnv()
	if cfg.Storage.Object != nil && cfg.Storage.Object.Bucket == "" {
		cfg.Storage.Object.Bucket = "plotboard"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays credential material from the environment. File values
// lose to the environment so a checked-in config can hold everything but
// the secrets.
func (c *Config) applyEnv() {
	if v := os.Getenv("PLOTBOARD_DATABASE_DSN"); v != "" && c.Source.Database != nil {
		c.Source.Database.DSN = v
	}
	if c.Storage.Object != nil {
		if v := os.Getenv("PLOTBOARD_OBJECT_ACCESS_KEY"); v != "" {
			c.Storage.Object.AccessKey = v
		}
		if v := os.Getenv("PLOTBOARD_OBJECT_SECRET_KEY"); v != "" {
			c.Storage.Object.SecretKey = v
		}
	}
}

// Validate reports the first structural problem in the configuration.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.CSVPath == "" {
			return errs.New(errs.ErrKindInvalidInput, "csv source requires source.csv_path")
		}
	case SourcePostgres, SourceMySQL:
		if c.Source.Database == nil || c.Source.Database.DSN == "" {
			return errs.Newf(errs.ErrKindInvalidInput, "%s source requires source.database.dsn", c.Source.Kind)
		}
		if c.Source.Table == "" {
			return errs.Newf(errs.ErrKindInvalidInput, "%s source requires source.table", c.Source.Kind)
		}
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown source kind %q", c.Source.Kind)
	}

	switch c.Storage.Kind {
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			return errs.New(errs.ErrKindInvalidInput, "local storage requires storage.local_dir")
		}
	case StorageMinIO:
		if c.Storage.Object == nil || c.Storage.Object.Endpoint == "" {
			return errs.New(errs.ErrKindInvalidInput, "minio storage requires storage.object.endpoint")
		}
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown storage kind %q", c.Storage.Kind)
	}

	if c.Server.Addr == "" {
		return errs.New(errs.ErrKindInvalidInput, "server.addr must not be empty")
	}
	return nil
}
