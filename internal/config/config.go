package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the full application configuration. Values come from the
// environment (WALLIX_ prefix) with an optional .env file; there is no
// ambient global state, every component receives this struct explicitly.
type Config struct {
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	// BaseURL is the bastion root, e.g. https://bastion.example.com
	BaseURL string `env:"BASE_URL"`

	CacheFile   string `env:"CACHE_FILE"`
	HistoryFile string `env:"HISTORY_FILE"`

	// CacheMaxAge is the freshness window for the inventory cache. The
	// bastion inventory changes rarely, so the default is a week.
	CacheMaxAge time.Duration `env:"CACHE_MAX_AGE" envDefault:"168h"`
	// HistoryLimit bounds the connection history ledger.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"10"`

	// DeployFiles are file names under ~/.sshtools pushed to the remote
	// host at connection time.
	DeployFiles []string `env:"DEPLOY_FILES" envSeparator:","`

	// InsecureSkipVerify disables TLS verification toward the bastion,
	// which commonly runs with a self-signed certificate.
	InsecureSkipVerify bool `env:"INSECURE_SKIP_VERIFY" envDefault:"true"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	Verbose        bool          `env:"VERBOSE" envDefault:"false"`
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "WALLIX_"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if cfg.CacheFile == "" {
		cfg.CacheFile = filepath.Join(home, ".wallix_cache")
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = filepath.Join(home, ".wallix_history")
	}
	return &cfg, nil
}

// Validate checks the fields every remote operation needs. Cache-only reads
// work without credentials, so this is called by commands that hit the
// bastion, not at load time.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("WALLIX_BASE_URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("WALLIX_USERNAME is required")
	}
	return nil
}
