// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

// Package config holds all configuration for an export run, loaded from an
// optional YAML config file and environment variables via Koanf v2.
//
// Configuration Loading Order (highest priority wins):
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML file (config.yaml) for persistent settings
//  3. Environment Variables: override any setting
//
// Configuration Categories:
//
//  1. SureHub: cloud API credentials and connection settings
//  2. Export: date range and output file path
//  3. Alerts: notification-feed harvest tuning (page size, ceiling, cooldown)
//     and the device-name-to-ID mapping table
//  4. Logging: log level and output format
//
// Config is immutable after Load() and passed by value into each component.
package config

import "time"

// Config holds all settings for one export run.
type Config struct {
	SureHub SureHubConfig `koanf:"surehub"`
	Export  ExportConfig  `koanf:"export"`
	Alerts  AlertsConfig  `koanf:"alerts"`
	Logging LoggingConfig `koanf:"logging"`
}

// SureHubConfig holds SurePetcare cloud API connection settings.
//
// Environment Variables:
//   - SUREHUB_URL: API base URL (default: https://app.api.surehub.io)
//   - SUREHUB_EMAIL: account login email
//   - SUREHUB_PASSWORD: account password
//   - SUREHUB_DEVICE_ID: client device identifier sent with the login payload
//   - SUREHUB_TIMEOUT: per-request HTTP timeout (default: 30s)
type SureHubConfig struct {
	URL      string        `koanf:"url" validate:"required,url"`
	Email    string        `koanf:"email" validate:"required,email"`
	Password string        `koanf:"password" validate:"required"`
	DeviceID string        `koanf:"device_id" validate:"required"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ExportConfig holds the date range and output destination.
//
// Environment Variables:
//   - EXPORT_FROM: first date to pull, YYYY-MM-DD (required)
//   - EXPORT_TO: last date to pull, YYYY-MM-DD (default: today UTC)
//   - EXPORT_OUTPUT: path of the CSV file to write (required)
type ExportConfig struct {
	From   string `koanf:"from" validate:"required,isodate"`
	To     string `koanf:"to" validate:"omitempty,isodate"`
	Output string `koanf:"output" validate:"required"`
}

// AlertsConfig tunes the notification-feed harvest.
//
// The feed is paginated and rate-limited by the provider, so the harvester
// requests fixed-size pages with a deterministic cooldown between requests.
// MaxPages bounds the harvest against a misbehaving feed; hitting the bound
// is normal termination, not an error.
//
// DeviceMap resolves the device display names found in alert text to numeric
// device identifiers. It is needed when fountains dispense water without a
// microchip-tagged drinking event; such alerts name the device in prose.
// The map can only be set via the YAML config file (env vars cannot express
// maps).
//
// Environment Variables:
//   - ALERT_PAGE_SIZE: notifications per page (default: 25)
//   - ALERT_MAX_PAGES: page-count ceiling (default: 40)
//   - ALERT_COOLDOWN: pause between page requests (default: 2s)
type AlertsConfig struct {
	PageSize  int              `koanf:"page_size" validate:"min=1"`
	MaxPages  int              `koanf:"max_pages" validate:"min=1"`
	Cooldown  time.Duration    `koanf:"cooldown"`
	DeviceMap map[string]int64 `koanf:"device_map"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: console)
//   - LOG_CALLER: include caller info (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}
