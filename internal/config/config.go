// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"time"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values applied before any file or flag overrides.
const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultTokenTTL    = 30 * time.Minute
)

// Environment variables honored in addition to file and flags.
// The token secret is deliberately kept out of flags so it never
// appears in process listings.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTokenSecret = "RPGVAULT_TOKEN_SECRET"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr        string   `koanf:"addr"`
	MetricsAddr string   `koanf:"metrics_addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig holds token signing settings. The secret is loaded once at
// startup and held for the process lifetime; it is never logged.
type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":         "server.addr",
	"metrics-addr": "server.metrics_addr",
	"log-format":   "log.format",
	"database-url": "database.url",
	"token-ttl":    "auth.token_ttl",
}

// Load builds the configuration. path may be empty (no config file);
// flags may be nil (no flag overrides).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			MetricsAddr: DefaultMetricsAddr,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Auth: AuthConfig{TokenTTL: DefaultTokenTTL},
		Log:  LogConfig{Format: DefaultLogFormat},
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if url := os.Getenv(EnvDatabaseURL); url != "" {
		cfg.Database.URL = url
	}
	if secret := os.Getenv(EnvTokenSecret); secret != "" {
		cfg.Auth.TokenSecret = secret
	}

	return cfg, nil
}

// Validate checks that the configuration is complete enough to serve.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server address is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log format must be 'json' or 'text'")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set database.url or DATABASE_URL)")
	}
	if c.Auth.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token secret is required (set auth.token_secret or RPGVAULT_TOKEN_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("token TTL must be positive")
	}
	return nil
}
