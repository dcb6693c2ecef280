// Package config loads tripplanner configuration from an optional TOML file,
// an optional .env file and the environment, in increasing precedence.
//
// The result is a plain value: it is loaded once at start-up and handed to the
// relay and clients explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvAPIKey   = "DEEPSEEK_API_KEY"
	EnvListen   = "TRIPPLANNER_LISTEN"
	EnvRelayURL = "TRIPPLANNER_RELAY_URL"
	EnvModel    = "TRIPPLANNER_MODEL"
	EnvBaseURL  = "TRIPPLANNER_BASE_URL"
	EnvTimeout  = "TRIPPLANNER_UPSTREAM_TIMEOUT"
)

// Config is the complete tripplanner configuration.
type Config struct {
	Relay    RelayConfig    `toml:"relay"`
	Upstream UpstreamConfig `toml:"upstream"`
	Client   ClientConfig   `toml:"client"`
}

// RelayConfig configures the HTTP relay.
type RelayConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// UpstreamConfig describes the hosted model. APIKey is never read from the
// file, only from the environment.
type UpstreamConfig struct {
	APIKey  string   `toml:"-"`
	BaseURL string   `toml:"base_url"`
	Model   string   `toml:"model"`
	Timeout Duration `toml:"timeout"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	RelayURL string `toml:"relay_url"`
}

// Duration decodes TOML strings such as "90s" or "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Relay: RelayConfig{ListenAddr: ":8080"},
		Upstream: UpstreamConfig{
			BaseURL: "https://api.deepseek.com/v1",
			Model:   "deepseek-chat",
			Timeout: Duration{5 * time.Minute},
		},
		Client: ClientConfig{RelayURL: "http://localhost:8080"},
	}
}

// DefaultPath is ~/.tripplanner/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tripplanner", "config.toml")
}

// Load builds the configuration. path may be empty, in which case the
// default location is tried; a missing default file is not an error, a missing
// explicit file is. envFile names a dotenv file that is loaded when present
// without overriding variables already set.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("could not read config %s: %w", path, err)
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("could not load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Upstream.APIKey = os.Getenv(EnvAPIKey)

	if v := os.Getenv(EnvListen); v != "" {
		c.Relay.ListenAddr = v
	}
	if v := os.Getenv(EnvRelayURL); v != "" {
		c.Client.RelayURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Upstream.Model = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if err := c.Upstream.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
	}
	return nil
}
