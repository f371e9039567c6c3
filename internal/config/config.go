// Package config loads service configuration from an optional TOML file
// overlaid with environment variables. Environment always wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// Config holds the full service configuration.
type Config struct {
	// ClientID is the Azure app registration client id.
	ClientID string `toml:"client_id"`
	// ClientSecret is the app registration secret. Usually supplied via
	// environment rather than the config file.
	ClientSecret string `toml:"client_secret"`
	// TenantID is the Azure tenant the app authenticates against.
	TenantID string `toml:"tenant_id"`
	// Scope is the OAuth2 scope requested for client-credential tokens.
	Scope string `toml:"scope"`
	// TokenURL overrides the Microsoft login endpoint, mainly for tests.
	TokenURL string `toml:"token_url"`
	// Mailbox is the default user addressed by mail, calendar, drive and
	// Teams actions when a call does not pass one.
	Mailbox string `toml:"mailbox"`
	// GraphBaseURL overrides the Graph API root, mainly for tests.
	GraphBaseURL string `toml:"graph_base_url"`
	// ListenAddr is the HTTP listen address.
	ListenAddr string `toml:"listen_addr"`
	// AuditDB is the SQLite path for the invocation audit store. Empty
	// disables auditing.
	AuditDB string `toml:"audit_db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the configuration defaults applied before any file or
// environment value.
func Default() Config {
	return Config{
		Scope:      "https://graph.microsoft.com/.default",
		Mailbox:    "me",
		ListenAddr: ":8080",
		LogLevel:   "info",
	}
}

// Load builds the configuration from defaults, the optional TOML file at
// path, and the environment, in that order. It fails when any required
// credential is missing.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	overlayEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayEnv(cfg *Config) {
	setIfPresent := func(dst *string, key string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*dst = val
		}
	}
	setIfPresent(&cfg.ClientID, "CLIENT_ID")
	setIfPresent(&cfg.ClientSecret, "CLIENT_SECRET")
	setIfPresent(&cfg.TenantID, "TENANT_ID")
	setIfPresent(&cfg.Scope, "GRAPH_SCOPE")
	setIfPresent(&cfg.TokenURL, "TOKEN_URL")
	setIfPresent(&cfg.Mailbox, "MAILBOX")
	setIfPresent(&cfg.GraphBaseURL, "GRAPH_BASE_URL")
	setIfPresent(&cfg.ListenAddr, "LISTEN_ADDR")
	setIfPresent(&cfg.AuditDB, "AUDIT_DB")
	setIfPresent(&cfg.LogLevel, "LOG_LEVEL")
}

// validate reports every missing credential at once so operators fix the
// deployment in one pass.
func (c Config) validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if c.TenantID == "" {
		missing = append(missing, "TENANT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Credentials converts the loaded configuration into the credential set the
// token provider consumes.
func (c Config) Credentials() domain.Credentials {
	return domain.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TenantID:     c.TenantID,
		Scope:        c.Scope,
		TokenURL:     c.TokenURL,
	}
}

// IsNotFound reports whether the error came from a missing config file.
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
