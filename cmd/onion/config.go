package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teenjuna/onion/source/web"
)

// Config is the CLI configuration resolved from defaults, an optional YAML file and ONION_*
// environment variables. Flags set on the command line win over all of them.
type Config struct {
	URL         string `yaml:"url"`
	Dir         string `yaml:"dir"`
	DB          string `yaml:"db"`
	Durable     bool   `yaml:"durable"`
	Out         string `yaml:"out"`
	Retries     int    `yaml:"retries"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		URL:      web.DefaultURL,
		DB:       "onion.db",
		Retries:  3,
		LogLevel: "info",
	}
}

// LoadConfig resolves the configuration. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		} else if err != nil {
			return Config{}, fmt.Errorf("config %s does not exist", path)
		}
		if err := applyFileConfig(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

type fileConfig struct {
	URL         *string `yaml:"url"`
	Dir         *string `yaml:"dir"`
	DB          *string `yaml:"db"`
	Durable     *bool   `yaml:"durable"`
	Out         *string `yaml:"out"`
	Retries     *int    `yaml:"retries"`
	MetricsAddr *string `yaml:"metrics_addr"`
	LogLevel    *string `yaml:"log_level"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.URL != nil {
		cfg.URL = strings.TrimSpace(*fc.URL)
	}
	if fc.Dir != nil {
		cfg.Dir = strings.TrimSpace(*fc.Dir)
	}
	if fc.DB != nil {
		cfg.DB = strings.TrimSpace(*fc.DB)
	}
	if fc.Durable != nil {
		cfg.Durable = *fc.Durable
	}
	if fc.Out != nil {
		cfg.Out = strings.TrimSpace(*fc.Out)
	}
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = strings.TrimSpace(*fc.MetricsAddr)
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("ONION_URL")); val != "" {
		cfg.URL = val
	}
	if val := strings.TrimSpace(os.Getenv("ONION_DIR")); val != "" {
		cfg.Dir = val
	}
	if val := strings.TrimSpace(os.Getenv("ONION_DB")); val != "" {
		cfg.DB = val
	}
	if val := strings.TrimSpace(os.Getenv("ONION_DURABLE")); val != "" {
		durable, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parse ONION_DURABLE: %w", err)
		}
		cfg.Durable = durable
	}
	if val := strings.TrimSpace(os.Getenv("ONION_OUT")); val != "" {
		cfg.Out = val
	}
	if val := strings.TrimSpace(os.Getenv("ONION_RETRIES")); val != "" {
		retries, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parse ONION_RETRIES: %w", err)
		}
		cfg.Retries = retries
	}
	if val := strings.TrimSpace(os.Getenv("ONION_METRICS_ADDR")); val != "" {
		cfg.MetricsAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("ONION_LOG_LEVEL")); val != "" {
		cfg.LogLevel = val
	}
	return nil
}
