// Package config loads server configuration in three layers: built-in
// defaults, then the XDG config file, then environment variables.
// Later layers override earlier ones field by field.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "unleash-mcp"

// DefaultEnvironment is the Unleash environment targeted when neither
// the configuration nor the tool caller names one.
const DefaultEnvironment = "development"

// Environment variables recognized by Load.
const (
	EnvURL         = "UNLEASH_URL"
	EnvAPIToken    = "UNLEASH_API_TOKEN"
	EnvEnvironment = "UNLEASH_ENVIRONMENT"
	EnvAudit       = "UNLEASH_MCP_AUDIT"
)

// Config holds everything the server needs to reach Unleash and run
// its optional subsystems.
type Config struct {
	UnleashURL string `yaml:"unleash_url"`
	APIToken   string `yaml:"api_token"`

	// Environment is the Unleash environment the toggle and strategy
	// tools act on when the caller does not name one.
	Environment string `yaml:"environment"`

	// Audit controls the local journal of mutating operations.
	Audit    bool   `yaml:"audit"`
	AuditDir string `yaml:"audit_dir"`
}

// DefaultConfig returns the built-in defaults: no credentials, the
// development environment, and an enabled journal under the home
// directory.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Environment: DefaultEnvironment,
		Audit:       true,
		AuditDir:    filepath.Join(home, ".unleash-mcp"),
	}
}

// Path returns the standard config file location for the platform.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load resolves the effective configuration: defaults, overlaid with
// the standard config file when present, overlaid with environment
// variables. A missing config file is not an error; missing
// credentials are, so misconfiguration surfaces at startup instead of
// on the first tool call.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := Path(); fileExists(path) {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	return finish(cfg)
}

// LoadFrom resolves configuration against a specific file, skipping
// the XDG lookup. Used by the --config flag and tests.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg Config) (*Config, error) {
	applyEnv(&cfg)
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvURL); v != "" {
		cfg.UnleashURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv(EnvEnvironment); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv(EnvAudit); v != "" {
		cfg.Audit = !isOff(v)
	}
}

// isOff reports whether an env toggle spells "disabled".
func isOff(v string) bool {
	switch strings.ToLower(v) {
	case "0", "false", "off", "no":
		return true
	}
	return false
}

// Validate checks that the configuration can actually reach an
// Unleash instance.
func (c *Config) Validate() error {
	if c.UnleashURL == "" {
		return fmt.Errorf("unleash URL is required: set %s or unleash_url in %s", EnvURL, Path())
	}
	u, err := url.Parse(c.UnleashURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("unleash URL %q must start with http:// or https://", c.UnleashURL)
	}
	if c.APIToken == "" {
		return fmt.Errorf("API token is required: set %s or api_token in %s", EnvAPIToken, Path())
	}
	return nil
}
