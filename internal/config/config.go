package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the connection settings the kcadm CLI reads from the
// environment.
type Config struct {
	URL          string
	Realm        string
	ClientID     string
	ClientSecret string
	AuthRealm    string
	Timeout      time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where appropriate, and validates that all required values are present.
func Load() (*Config, error) {
	cfg := &Config{
		URL:          os.Getenv("KC_URL"),
		Realm:        envOrDefault("KC_REALM", "master"),
		ClientID:     envOrDefault("KC_CLIENT_ID", "admin-cli"),
		ClientSecret: os.Getenv("KC_CLIENT_SECRET"),
		AuthRealm:    os.Getenv("KC_AUTH_REALM"),
		Timeout:      30 * time.Second,
	}

	if v := os.Getenv("KC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse KC_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"KC_URL":           c.URL,
		"KC_CLIENT_SECRET": c.ClientSecret,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
