// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package config

import (
	"fmt"

	"github.com/annjackson/surepull/internal/validation"
)

// Validate checks the configuration for completeness and consistency.
// Struct tags handle per-field rules; cross-field rules (date ordering,
// positive durations) are checked here because the validator cannot express
// them without coupling fields together.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.SureHub.Timeout <= 0 {
		return fmt.Errorf("surehub.timeout must be positive, got %s", c.SureHub.Timeout)
	}
	if c.Alerts.Cooldown <= 0 {
		return fmt.Errorf("alerts.cooldown must be positive, got %s", c.Alerts.Cooldown)
	}

	from, err := validation.ParseISODate(c.Export.From)
	if err != nil {
		// Unreachable when struct validation passed; kept for direct callers
		return fmt.Errorf("export.from: %w", err)
	}
	to, err := validation.ParseISODate(c.Export.To)
	if err != nil {
		return fmt.Errorf("export.to: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("export date range is inverted: from=%s is after to=%s", c.Export.From, c.Export.To)
	}

	return nil
}
