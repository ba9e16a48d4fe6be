// Package config provides runtime configuration values for the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings every command shares. Environment variables
// supply defaults; command-line flags override them.
type Config struct {
	DataDir       string `env:"DIMREPORT_DATA_DIR" envDefault:"data"`
	Format        string `env:"DIMREPORT_FORMAT" envDefault:"table"`
	LogLevel      string `env:"DIMREPORT_LOG_LEVEL" envDefault:"warn"`
	LogFormat     string `env:"DIMREPORT_LOG_FORMAT" envDefault:"text"`
	CustomersFile string `env:"DIMREPORT_CUSTOMERS_FILE" envDefault:"customer_dim.csv"`
	ProductsFile  string `env:"DIMREPORT_PRODUCTS_FILE" envDefault:"product_dim.csv"`
	SalesFile     string `env:"DIMREPORT_SALES_FILE" envDefault:"sales_transactions.csv"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that are not validated elsewhere.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data dir must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: want text or json", c.LogFormat))
	}
	for name, file := range map[string]string{
		"customers": c.CustomersFile,
		"products":  c.ProductsFile,
		"sales":     c.SalesFile,
	} {
		if strings.TrimSpace(file) == "" {
			errs = append(errs, fmt.Errorf("%s file must not be empty", name))
		}
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
