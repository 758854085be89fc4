// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import (
	"context"
	"fmt"
	"time"

	"github.com/annjackson/surepull/internal/config"
	"github.com/annjackson/surepull/internal/logging"
	"github.com/annjackson/surepull/internal/surehub"
)

// SureHubAPI is the cloud surface the export run needs. Satisfied by
// surehub.Client.
type SureHubAPI interface {
	Login(ctx context.Context) error
	Pets(ctx context.Context) ([]surehub.Pet, error)
	AggregateReport(ctx context.Context, householdID, petID int64, from, to string) (surehub.AggregateReport, error)
	NotificationFetcher
}

// Manager drives one complete export run: authenticate, enumerate pets,
// pull each pet's aggregate report, harvest the alert feed, normalize both
// sources into the ledger, and write the CSV.
type Manager struct {
	api SureHubAPI
	cfg *config.Config
	now func() time.Time
}

// NewManager wires the export pipeline against the given API surface.
func NewManager(api SureHubAPI, cfg *config.Config) *Manager {
	return &Manager{api: api, cfg: cfg, now: time.Now}
}

// Run executes the export. The run is sequential: reports are fetched per
// pet in enumeration order, then alerts are harvested, so the output order
// is reproducible. A fetch failure aborts the run before any file is
// written; normalization itself never fails.
func (m *Manager) Run(ctx context.Context) error {
	recordedAt := m.now().UTC().Format(time.RFC3339)

	if err := m.api.Login(ctx); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	logging.Info().Msg("Authenticated with SurePetcare cloud")

	ledger := &Ledger{}

	if err := m.collectReports(ctx, recordedAt, ledger); err != nil {
		return err
	}
	if err := m.collectAlerts(ctx, recordedAt, ledger); err != nil {
		return err
	}

	if err := WriteCSV(m.cfg.Export.Output, ledger.Events()); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	logging.Info().
		Int("events", ledger.Len()).
		Str("output", m.cfg.Export.Output).
		Msg("Export complete")
	return nil
}

// collectReports fetches and normalizes the aggregate report of every pet
// in the household. A household with no pets is unusual but not an error;
// the run continues to the alert feed.
func (m *Manager) collectReports(ctx context.Context, recordedAt string, ledger *Ledger) error {
	pets, err := m.api.Pets(ctx)
	if err != nil {
		return fmt.Errorf("enumerating pets: %w", err)
	}
	logging.Info().Int("pets", len(pets)).Msg("Enumerated household pets")
	if len(pets) == 0 {
		logging.Warn().Msg("No pets in household, skipping aggregate reports")
		return nil
	}

	from, to := m.cfg.Export.From, m.cfg.Export.To
	for _, pet := range pets {
		report, err := m.api.AggregateReport(ctx, pet.HouseholdID, pet.ID, from, to)
		if err != nil {
			return fmt.Errorf("fetching aggregate report for pet %d: %w", pet.ID, err)
		}

		endpoint := fmt.Sprintf("/api/report/household/%d/pet/%d/aggregate?from=%s&to=%s",
			pet.HouseholdID, pet.ID, from, to)
		events := NormalizeReport(report, pet, endpoint, recordedAt)
		ledger.Append(events...)

		logging.Info().
			Int64("pet_id", pet.ID).
			Str("pet_name", petDisplayName(pet.Name)).
			Int("events", len(events)).
			Msg("Normalized aggregate report")
	}
	return nil
}

// collectAlerts harvests the notification feed and normalizes the water
// consumption alerts into the ledger.
func (m *Manager) collectAlerts(ctx context.Context, recordedAt string, ledger *Ledger) error {
	harvester := NewAlertHarvester(m.api, &m.cfg.Alerts)
	notifications, err := harvester.Harvest(ctx)
	if err != nil {
		return fmt.Errorf("harvesting alerts: %w", err)
	}

	events := NormalizeAlerts(notifications, m.cfg.Alerts.DeviceMap, recordedAt)
	ledger.Append(events...)

	logging.Info().
		Int("notifications", len(notifications)).
		Int("events", len(events)).
		Msg("Normalized water alerts")
	return nil
}
