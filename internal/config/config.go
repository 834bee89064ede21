// Package config loads stratako's settings from an optional YAML file and
// STRATAKO_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AuthConfig struct {
	Secret            string        `yaml:"secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	MinPasswordLength int           `yaml:"min_password_length"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives JSON logs. Empty means stderr.
	File string `yaml:"file"`
}

// DefaultConfig returns the settings used when nothing is configured. The
// database lives under ~/.stratako when the home directory is known.
func DefaultConfig() Config {
	dbPath := "stratako.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".stratako", "stratako.db")
	}
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8000",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			TokenTTL:          7 * 24 * time.Hour,
			MinPasswordLength: 9,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STRATAKO_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("STRATAKO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STRATAKO_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("STRATAKO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STRATAKO_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("STRATAKO_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STRATAKO_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = ttl
	}
	if v := os.Getenv("STRATAKO_MIN_PASSWORD_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STRATAKO_MIN_PASSWORD_LENGTH: %w", err)
		}
		c.Auth.MinPasswordLength = n
	}
	return nil
}

// Validate checks the settings every command needs. The token secret is
// filled in later by EnsureSecret.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("database.path", c.Database.Path, required),
		criterio.Run("server.addr", c.Server.Addr, required),
		criterio.Run("auth.token_ttl", c.Auth.TokenTTL, nonNegative),
		criterio.Run("auth.min_password_length", c.Auth.MinPasswordLength, positive),
		criterio.Run("log.level", c.Log.Level, logLevel),
	)
}

// SecretPath is where a generated token secret is kept: next to the
// database.
func (c *Config) SecretPath() string {
	return filepath.Join(filepath.Dir(c.Database.Path), "secret")
}

// EnsureSecret leaves a configured secret alone. Otherwise it reads the
// secret stored at SecretPath, generating and storing one on first use.
func (c *Config) EnsureSecret() error {
	if c.Auth.Secret != "" {
		return nil
	}
	path := c.SecretPath()
	data, err := os.ReadFile(path)
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		c.Auth.Secret = strings.TrimSpace(string(data))
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read secret: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create secret dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	c.Auth.Secret = secret
	return nil
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func positive(n int) error {
	if n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func logLevel(v string) error {
	if _, err := zerolog.ParseLevel(v); err != nil {
		return fmt.Errorf("unknown level %q", v)
	}
	return nil
}
