package accounts

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// Config is the immutable process-wide configuration, built once at startup
// and passed by reference into the services that need it.
type Config struct {
	SigningKey string        `env:"ACCOUNTS_SIGNING_KEY,notEmpty"`
	Issuer     string        `env:"ACCOUNTS_ISSUER" envDefault:"go-accounts"`
	AccessTTL  time.Duration `env:"ACCOUNTS_ACCESS_TTL" envDefault:"30m"`
	RefreshTTL time.Duration `env:"ACCOUNTS_REFRESH_TTL" envDefault:"168h"`
	DSN        string        `env:"ACCOUNTS_DSN" envDefault:"file:accounts.db?cache=shared"`
	HTTPAddr   string        `env:"ACCOUNTS_HTTP_ADDR" envDefault:":8080"`
	Debug      bool          `env:"ACCOUNTS_DEBUG" envDefault:"false"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse environment configuration")
	}
	return cfg, nil
}

// NewTokenServiceFromConfig wires a TokenService with the configured key,
// TTLs, and issuer.
func NewTokenServiceFromConfig(cfg *Config, opts ...TokenServiceOption) *TokenService {
	return NewTokenService([]byte(cfg.SigningKey), cfg.AccessTTL, cfg.RefreshTTL, cfg.Issuer, opts...)
}
