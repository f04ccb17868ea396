package cookies

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the configuration shared by readers and writers. It is treated
// as immutable once built.
type Config struct {
	// Secret signs new cookies. Empty means signing is not available.
	Secret []byte
	// RotatedSecrets are still accepted when verifying.
	RotatedSecrets [][]byte
	// SiteRoot is the default path of new cookies; "/" is used when empty.
	SiteRoot string
}

type envConfig struct {
	Secret         string   `env:"COOKIE_SECRET"`
	RotatedSecrets []string `env:"COOKIE_ROTATED_SECRETS" envSeparator:","`
	SiteRoot       string   `env:"COOKIE_SITE_ROOT"`
}

// LoadConfig builds a Config from COOKIE_SECRET, COOKIE_ROTATED_SECRETS and
// COOKIE_SITE_ROOT.
func LoadConfig() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse cookie config: %w", err)
	}

	cfg := Config{SiteRoot: raw.SiteRoot}
	if raw.Secret != "" {
		cfg.Secret = []byte(raw.Secret)
	}
	for _, s := range raw.RotatedSecrets {
		if s = strings.TrimSpace(s); s != "" {
			cfg.RotatedSecrets = append(cfg.RotatedSecrets, []byte(s))
		}
	}
	return cfg, nil
}

// HasSecret reports whether a signing secret is configured.
func (c Config) HasSecret() bool {
	return len(c.Secret) > 0
}

func (c Config) defaultPath() string {
	if c.SiteRoot != "" {
		return c.SiteRoot
	}
	return "/"
}

// verificationSecrets returns the signing secret followed by rotated ones.
func (c Config) verificationSecrets() [][]byte {
	secrets := make([][]byte, 0, 1+len(c.RotatedSecrets))
	secrets = append(secrets, c.Secret)
	for _, s := range c.RotatedSecrets {
		if len(s) > 0 {
			secrets = append(secrets, s)
		}
	}
	return secrets
}
