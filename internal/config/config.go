// Package config loads application configuration: server and storage
// settings plus the tuning knobs for the heuristic parsing components
// (spam weights, extractor limits, signature detection). Values come from
// defaults, an optional yaml file, and MAILINTEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/felo/mailintel/internal/extract"
	"github.com/felo/mailintel/internal/signature"
	"github.com/felo/mailintel/internal/spam"
)

// Config wraps the loaded settings.
type Config struct {
	v *viper.Viper
}

// New loads configuration from config.yaml (working directory,
// ~/.mailintel, or /etc/mailintel) falling back to defaults.
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.mailintel")
	v.AddConfigPath("/etc/mailintel/")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("MAILINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, defaults apply
	}

	return &Config{v: v}, nil
}

// Default returns a configuration built purely from defaults, without
// touching the filesystem or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	dataDir := filepath.Join(homeDir, ".mailintel")

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")

	// Storage defaults
	v.SetDefault("db.path", filepath.Join(dataDir, "mailintel.db"))
	v.SetDefault("emails.path", "./emails")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Extractor defaults
	v.SetDefault("extract.phone_min_digits", 7)
	v.SetDefault("extract.phone_max_digits", 15)

	// Signature detection defaults
	v.SetDefault("signature.max_lines", 8)

	// Spam scoring defaults. Weights are heuristic and approximate by
	// design; override per deployment.
	v.SetDefault("spam.uppercase_ratio", 0.5)
	v.SetDefault("spam.url_density", 200)
	v.SetDefault("spam.max_tracking_urls", 3)
	v.SetDefault("spam.weights", map[string]float64{})
}

// ServerAddr returns the host:port the HTTP API listens on.
func (c *Config) ServerAddr() string {
	return c.v.GetString("server.host") + ":" + c.v.GetString("server.port")
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return c.v.GetString("db.path")
}

// EmailsPath returns the directory scanned for .eml files.
func (c *Config) EmailsPath() string {
	return c.v.GetString("emails.path")
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() string {
	return c.v.GetString("logging.level")
}

// LogFormat returns "json" or "console".
func (c *Config) LogFormat() string {
	return c.v.GetString("logging.format")
}

// ExtractConfig returns the entity extractor tuning.
func (c *Config) ExtractConfig() extract.Config {
	return extract.Config{
		PhoneMinDigits: c.v.GetInt("extract.phone_min_digits"),
		PhoneMaxDigits: c.v.GetInt("extract.phone_max_digits"),
	}
}

// SignatureConfig returns the signature detector tuning.
func (c *Config) SignatureConfig() signature.Config {
	return signature.Config{
		MaxLines: c.v.GetInt("signature.max_lines"),
	}
}

// SpamConfig returns the spam scorer tuning, including any per-check
// weight overrides.
func (c *Config) SpamConfig() spam.Config {
	weights := make(map[string]float64)
	for name, w := range c.v.GetStringMap("spam.weights") {
		switch value := w.(type) {
		case float64:
			weights[name] = value
		case int:
			weights[name] = float64(value)
		}
	}
	return spam.Config{
		Weights:         weights,
		UppercaseRatio:  c.v.GetFloat64("spam.uppercase_ratio"),
		URLDensity:      c.v.GetInt("spam.url_density"),
		MaxTrackingURLs: c.v.GetInt("spam.max_tracking_urls"),
	}
}
