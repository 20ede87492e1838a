// Package config loads the YAML application configuration with environment
// variable expansion and sane defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/scrounge/pkg/registry"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:scrounge.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Source struct {
		BaseURL     string        `yaml:"base_url" json:"base_url" jsonschema:"default=https://dining.umich.edu/menus-locations/dining-halls,description=Upstream dining site base URL"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Per-page fetch timeout"`
		UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Scrounge/1.0,description=User agent for upstream requests"`
		Concurrency int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=4,description=Maximum parallel hall fetches during refresh"`
	} `yaml:"source" json:"source" jsonschema:"description=Upstream menu source configuration"`

	Refresh struct {
		ThresholdHour int `yaml:"threshold_hour" json:"threshold_hour" jsonschema:"default=2,minimum=0,maximum=23,description=UTC hour after which the daily refresh may run"`
	} `yaml:"refresh" json:"refresh" jsonschema:"description=Cache freshness configuration"`

	Halls []Hall `yaml:"halls" json:"halls" jsonschema:"description=Dining halls with their chat aliases; empty uses the stock set"`
}

// Hall is one configured dining hall with its chat aliases.
type Hall struct {
	Slug    string   `yaml:"slug" json:"slug" jsonschema:"required,description=Canonical hall slug as used in upstream URLs"`
	Aliases []string `yaml:"aliases" json:"aliases" jsonschema:"description=Informal names users type in chat"`
}

// Load reads configuration from a YAML file. An empty path returns the
// defaults without touching the filesystem.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:scrounge.db?cache=shared&mode=rwc"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Source.BaseURL == "" {
		c.Source.BaseURL = "https://dining.umich.edu/menus-locations/dining-halls"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 15 * time.Second
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = "Scrounge/1.0"
	}
	if c.Source.Concurrency == 0 {
		c.Source.Concurrency = 4
	}

	if c.Refresh.ThresholdHour == 0 {
		c.Refresh.ThresholdHour = 2
	}

	if len(c.Halls) == 0 {
		for _, h := range registry.DefaultHalls() {
			c.Halls = append(c.Halls, Hall{Slug: h.Slug, Aliases: h.Aliases})
		}
	}
}

func (c *Config) validate() error {
	if c.Refresh.ThresholdHour < 0 || c.Refresh.ThresholdHour > 23 {
		return fmt.Errorf("refresh.threshold_hour %d out of range", c.Refresh.ThresholdHour)
	}
	if c.Source.Concurrency < 1 {
		return fmt.Errorf("source.concurrency must be positive, got %d", c.Source.Concurrency)
	}
	// hall slugs and aliases get full disjointness validation in
	// registry.New at wiring time, where the error can name the offender
	return nil
}

// GetServerConfig returns server listen address and timeout
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// RegistryHalls converts the configured halls for registry construction.
func (c *Config) RegistryHalls() []registry.Hall {
	halls := make([]registry.Hall, len(c.Halls))
	for i, h := range c.Halls {
		halls[i] = registry.Hall{Slug: h.Slug, Aliases: h.Aliases}
	}
	return halls
}
