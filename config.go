package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration, built once at process start and
// passed by reference into each stage. Values come from three layers, later
// wins: struct defaults, environment variables, and an optional TOML file.
type Config struct {
	SourceType string `env:"SOURCE_TYPE" envDefault:"mysql" toml:"source_type"` // mysql or sqlite

	MySQLHost     string `env:"MYSQL_HOST" envDefault:"127.0.0.1" toml:"mysql_host"`
	MySQLPort     int    `env:"MYSQL_PORT" envDefault:"3306" toml:"mysql_port"`
	MySQLUser     string `env:"MYSQL_USER" toml:"mysql_user"`
	MySQLPassword string `env:"MYSQL_PASSWORD" toml:"mysql_password"`
	MySQLDatabase string `env:"MYSQL_DATABASE" toml:"mysql_database"`

	SQLitePath string `env:"SQLITE_PATH" toml:"sqlite_path"`

	TargetDSN string `env:"TARGET_PG_DSN" toml:"target_dsn"`

	LoadMode  string `env:"LOAD_MODE" envDefault:"append" toml:"load_mode"` // append or replace
	BatchSize int    `env:"BATCH_SIZE" envDefault:"500" toml:"batch_size"`

	// TargetSchema is the fixed target schema; UseTargetSchema switches to
	// deriving the schema from each spec's target database field instead.
	TargetSchema    string `env:"TARGET_SCHEMA" envDefault:"prd_ahp" toml:"target_schema"`
	UseTargetSchema bool   `env:"USE_TARGET_SCHEMA" toml:"use_target_schema"`

	MetadataTable string `env:"METADATA_TABLE" envDefault:"M_METADATA" toml:"metadata_table"`
}

// loadConfig builds and validates the configuration. path may be empty, in
// which case only defaults and environment variables apply. All validation
// happens here, before any connection is opened.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if unknown := md.Undecoded(); len(unknown) > 0 {
			keys := make([]string, len(unknown))
			for i, k := range unknown {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.SourceType = strings.ToLower(strings.TrimSpace(c.SourceType))
	switch c.SourceType {
	case "mysql":
		if c.MySQLUser == "" {
			return fmt.Errorf("MYSQL_USER is required")
		}
		if c.MySQLPassword == "" {
			return fmt.Errorf("MYSQL_PASSWORD is required")
		}
		if c.MySQLDatabase == "" {
			return fmt.Errorf("MYSQL_DATABASE is required")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite sources")
		}
	default:
		return fmt.Errorf("source type must be one of: mysql, sqlite")
	}

	if c.TargetDSN == "" {
		return fmt.Errorf("TARGET_PG_DSN is required")
	}

	// An unrecognized load mode is rejected outright rather than silently
	// falling through to append semantics.
	c.LoadMode = strings.ToLower(strings.TrimSpace(c.LoadMode))
	switch c.LoadMode {
	case "append", "replace":
	default:
		return fmt.Errorf("load mode must be one of: append, replace")
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be a positive integer")
	}

	c.TargetSchema = strings.TrimSpace(c.TargetSchema)
	if c.TargetSchema == "" {
		return fmt.Errorf("target schema is required")
	}

	c.MetadataTable = strings.TrimSpace(c.MetadataTable)
	if c.MetadataTable == "" {
		return fmt.Errorf("metadata table is required")
	}

	return nil
}
