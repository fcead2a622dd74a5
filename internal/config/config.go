// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package config loads application configuration using Koanf v2 with
// layered sources (highest priority wins):
//
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (VITRINA_ prefix)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/vitrina/internal/validation"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vitrina/config.yaml",
	"/etc/vitrina/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Vitrina environment variables.
const envPrefix = "VITRINA_"

// Config is the root application configuration.
type Config struct {
	Catalog  CatalogConfig  `koanf:"catalog"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// CatalogConfig controls dataset loading.
type CatalogConfig struct {
	// BaseURL is the remote origin for the dataset files. When empty,
	// datasets are read from DataDir on the local filesystem.
	BaseURL string `koanf:"base_url"`

	// DataDir is the deployment root holding content.json, config.json
	// and recommendations.json. Also served at /data.
	DataDir string `koanf:"data_dir"`

	CacheTTL       time.Duration `koanf:"cache_ttl"`
	RetryAttempts  int           `koanf:"retry_attempts" validate:"gte=0"`
	RetryDelay     time.Duration `koanf:"retry_delay"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port    int           `koanf:"port" validate:"gt=0,max=65535"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig controls CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gt=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:        "",
			DataDir:        "./data",
			CacheTTL:       time.Hour,
			RetryAttempts:  3,
			RetryDelay:     time.Second,
			FetchTimeout:   30 * time.Second,
			BreakerEnabled: false,
		},
		Server: ServerConfig{
			Port:    4178,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// VITRINA_CATALOG_BASE_URL -> catalog.base_url
	// VITRINA_SERVER_PORT      -> server.port
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if c.Catalog.BaseURL == "" && c.Catalog.DataDir == "" {
		return fmt.Errorf("catalog requires either base_url or data_dir")
	}
	if c.Catalog.RetryDelay <= 0 {
		return fmt.Errorf("catalog retry_delay must be positive, got %v", c.Catalog.RetryDelay)
	}
	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog cache_ttl must be positive, got %v", c.Catalog.CacheTTL)
	}
	return nil
}

// findConfigFile searches for a config file, preferring CONFIG_PATH.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configSections are the known top-level keys. The env transform splits
// the variable name on the section boundary so multi-word leaf keys
// survive (CATALOG_BASE_URL -> catalog.base_url).
var configSections = []string{"catalog", "server", "security", "logging"}

// envTransformFunc maps VITRINA_SECTION_KEY_NAME to section.key_name.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, section := range configSections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	// Unknown section: ignore by returning an empty key.
	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
