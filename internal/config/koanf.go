// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

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
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/surepull/config.yaml",
	"/etc/surepull/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		SureHub: SureHubConfig{
			URL:     "https://app.api.surehub.io",
			Timeout: 30 * time.Second,
		},
		Export: ExportConfig{
			From:   "",
			To:     "", // Empty means today (UTC), resolved at load time
			Output: "",
		},
		Alerts: AlertsConfig{
			PageSize: 25,
			MaxPages: 40, // ~1000 alerts with the default page size
			Cooldown: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
//
// After the layers are merged, an empty export.to is resolved to today's UTC
// date and the result is validated. Validation failure is fatal before any
// network call is made.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// SUREHUB_EMAIL -> surehub.email
	// ALERT_PAGE_SIZE -> alerts.page_size
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Resolve the dynamic default: pull up to today when no end date is given
	if cfg.Export.To == "" {
		cfg.Export.To = time.Now().UTC().Format("2006-01-02")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - SUREHUB_EMAIL -> surehub.email
//   - EXPORT_OUTPUT -> export.output
//   - ALERT_MAX_PAGES -> alerts.max_pages
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// SureHub API mappings
		"surehub_url":       "surehub.url",
		"surehub_email":     "surehub.email",
		"surehub_password":  "surehub.password",
		"surehub_device_id": "surehub.device_id",
		"surehub_timeout":   "surehub.timeout",

		// Export mappings
		"export_from":   "export.from",
		"export_to":     "export.to",
		"export_output": "export.output",

		// Alert harvest mappings
		// Note: alerts.device_map has no env mapping; maps can only be
		// expressed in the YAML config file.
		"alert_page_size": "alerts.page_size",
		"alert_max_pages": "alerts.max_pages",
		"alert_cooldown":  "alerts.cooldown",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
