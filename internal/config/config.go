// Package config loads the cockpit configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/farxc/project-cockpit/internal/env"
	"github.com/farxc/project-cockpit/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Driver       string `mapstructure:"driver" yaml:"driver"`
		Path         string `mapstructure:"path" yaml:"path"`
		DSN          string `mapstructure:"dsn" yaml:"-"`
		MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
		MaxIdleTime  string `mapstructure:"max_idle_time" yaml:"max_idle_time"`
	} `mapstructure:"store" yaml:"store"`

	Import struct {
		DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
		CSVEncoding string `mapstructure:"csv_encoding" yaml:"csv_encoding"`
	} `mapstructure:"import" yaml:"import"`

	API struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"api" yaml:"api"`

	Reconcile struct {
		ObligationsTable string `mapstructure:"obligations_table" yaml:"obligations_table"`
	} `mapstructure:"reconcile" yaml:"reconcile"`
}

// Load builds the configuration. configFile may be empty, in which case
// config.yaml is looked up in the usual places and is optional.
func Load(configFile string) (*Config, error) {
	if err := env.Load(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(".cockpit")
		v.AddConfigPath("$HOME/.cockpit")
	}

	v.SetEnvPrefix("COCKPIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults seeds every key. The unprefixed variables understood by
// earlier deployments (ADDR, DB_*) still provide the fallback values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", env.GetString("LOG_LEVEL", "info"))
	v.SetDefault("log.format", "text")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "finanzdaten.db")
	v.SetDefault("store.dsn", env.GetString("DB_ADDR", ""))
	v.SetDefault("store.max_open_conns", env.GetInt("DB_MAX_OPEN_CONNS", 25))
	v.SetDefault("store.max_idle_conns", env.GetInt("DB_MAX_IDLE_CONNS", 25))
	v.SetDefault("store.max_idle_time", env.GetString("DB_MAX_IDLE_TIME", "15m"))

	v.SetDefault("import.data_dir", "data")
	v.SetDefault("import.csv_encoding", "ISO-8859-1")

	v.SetDefault("api.addr", env.GetString("ADDR", ":8080"))

	v.SetDefault("reconcile.obligations_table", "obligo_cji5")
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver %s", DriverSQLite)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %s", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	if _, err := time.ParseDuration(c.Store.MaxIdleTime); err != nil {
		return fmt.Errorf("invalid store.max_idle_time: %w", err)
	}

	if _, err := ianaindex.IANA.Encoding(c.Import.CSVEncoding); err != nil {
		return fmt.Errorf("unknown import.csv_encoding %q: %w", c.Import.CSVEncoding, err)
	}

	if c.Reconcile.ObligationsTable == "" {
		return errors.New("reconcile.obligations_table must not be empty")
	}

	return nil
}

// LogLevel returns the parsed log level; Validate guarantees it parses.
func (c *Config) LogLevel() logger.LogLevel {
	lvl, _ := logger.ParseLevel(c.Log.Level)
	return lvl
}
