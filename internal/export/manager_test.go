// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/annjackson/surepull/internal/config"
	"github.com/annjackson/surepull/internal/surehub"
)

// fakeAPI is an in-memory SureHubAPI for pipeline tests.
type fakeAPI struct {
	pets          []surehub.Pet
	reports       map[int64]string
	pages         [][]surehub.Notification
	loginErr      error
	petsErr       error
	reportErr     error
	notifyErr     error
	loggedIn      bool
	reportsCalled []int64
}

func (f *fakeAPI) Login(context.Context) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeAPI) Pets(context.Context) ([]surehub.Pet, error) {
	if f.petsErr != nil {
		return nil, f.petsErr
	}
	return f.pets, nil
}

func (f *fakeAPI) AggregateReport(_ context.Context, _, petID int64, _, _ string) (surehub.AggregateReport, error) {
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	f.reportsCalled = append(f.reportsCalled, petID)

	var report surehub.AggregateReport
	if err := json.Unmarshal([]byte(f.reports[petID]), &report); err != nil {
		return nil, err
	}
	return report, nil
}

func (f *fakeAPI) Notifications(_ context.Context, page, _ int) ([]surehub.Notification, error) {
	if f.notifyErr != nil {
		return nil, f.notifyErr
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func managerConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Export: config.ExportConfig{
			From:   "2026-01-01",
			To:     "2026-01-31",
			Output: filepath.Join(t.TempDir(), "export.csv"),
		},
		Alerts: config.AlertsConfig{
			PageSize:  25,
			MaxPages:  40,
			Cooldown:  time.Millisecond,
			DeviceMap: map[string]int64{"Fountain 2": 5002},
		},
	}
}

func newTestManager(api *fakeAPI, cfg *config.Config) *Manager {
	m := NewManager(api, cfg)
	m.now = func() time.Time {
		return time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	}
	return m
}

func readExport(t *testing.T, path string) [][]string {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	return rows
}

// TestManagerRun drives the full pipeline against a fake API: one pet with
// a feeding record and one water alert become exactly two rows
func TestManagerRun(t *testing.T) {
	api := &fakeAPI{
		pets: []surehub.Pet{{ID: 7, Name: "Whiskers", HouseholdID: 100}},
		reports: map[int64]string{
			7: `{"feeding": {"datapoints": [{"to": "2026-01-15T08:30:00Z", "device_id": 9001}]}}`,
		},
		pages: [][]surehub.Notification{
			{{Type: 34, Text: "80ml from Fountain 2", CreatedAt: "2026-01-10T06:00:00Z"}},
		},
	}
	cfg := managerConfig(t)

	if err := newTestManager(api, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !api.loggedIn {
		t.Error("Run() did not authenticate before fetching")
	}

	rows := readExport(t, cfg.Export.Output)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 events", len(rows))
	}

	food := rows[1]
	if food[3] != "Food" || food[1] != "7" || food[2] != "Whiskers" {
		t.Errorf("report row = %v, want food event for pet 7", food)
	}
	if food[4] != "" {
		t.Errorf("report row amount = %q, want empty (no weights)", food[4])
	}
	if food[0] != "2026-01-31T12:00:00Z" {
		t.Errorf("report row recorded at = %q, want fixed run timestamp", food[0])
	}
	if food[9] != "/api/report/household/100/pet/7/aggregate?from=2026-01-01&to=2026-01-31" {
		t.Errorf("report row endpoint = %q", food[9])
	}

	water := rows[2]
	if water[3] != "Water" || water[4] != "-80" {
		t.Errorf("alert row = %v, want water event of -80", water)
	}
	if water[1] != "5002" || water[2] != "Fountain 2" || water[7] != "5002" {
		t.Errorf("alert row subject = %v, want mapped device 5002 in both ID columns", water)
	}
	if water[9] != "/api/notification" {
		t.Errorf("alert row endpoint = %q", water[9])
	}
}

// TestManagerRunDeterministic verifies two runs over the same data produce
// byte-identical exports
func TestManagerRunDeterministic(t *testing.T) {
	newAPI := func() *fakeAPI {
		return &fakeAPI{
			pets: []surehub.Pet{
				{ID: 7, Name: "Whiskers", HouseholdID: 100},
				{ID: 8, Name: "Paws", HouseholdID: 100},
			},
			reports: map[int64]string{
				7: `{"movement": {"datapoints": [{"to": "m1"}]}, "drinking": {"datapoints": [{"to": "d1", "weights": [{"change": -12}]}]}}`,
				8: `{"feeding": {"datapoints": [{"to": "f1"}, {"to": "f2"}]}}`,
			},
			pages: [][]surehub.Notification{
				{{Type: 34, Text: "80ml from Fountain 2", CreatedAt: "t1"}},
				{{Type: 1, Text: "Door opened", CreatedAt: "t2"}},
			},
		}
	}

	var exports [][]byte
	for run := 0; run < 3; run++ {
		cfg := managerConfig(t)
		if err := newTestManager(newAPI(), cfg).Run(context.Background()); err != nil {
			t.Fatalf("run %d: Run() error = %v", run, err)
		}
		raw, err := os.ReadFile(cfg.Export.Output)
		if err != nil {
			t.Fatalf("run %d: reading export: %v", run, err)
		}
		exports = append(exports, raw)
	}

	for run := 1; run < len(exports); run++ {
		if !bytes.Equal(exports[run], exports[0]) {
			t.Errorf("run %d export differs from run 0", run)
		}
	}
}

// TestManagerRunNoPets verifies an empty household still harvests alerts
// and writes the file
func TestManagerRunNoPets(t *testing.T) {
	api := &fakeAPI{
		pages: [][]surehub.Notification{
			{{Type: 34, Text: "40ml from Fountain 2", CreatedAt: "t1"}},
		},
	}
	cfg := managerConfig(t)

	if err := newTestManager(api, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rows := readExport(t, cfg.Export.Output)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus 1 alert event", len(rows))
	}
}

// TestManagerRunFailures verifies each upstream failure aborts before any
// file is written
func TestManagerRunFailures(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeAPI
	}{
		{
			name: "login failure",
			api:  &fakeAPI{loginErr: errors.New("bad credentials")},
		},
		{
			name: "pet enumeration failure",
			api:  &fakeAPI{petsErr: errors.New("upstream unavailable")},
		},
		{
			name: "report failure",
			api: &fakeAPI{
				pets:      []surehub.Pet{{ID: 7, HouseholdID: 100}},
				reportErr: errors.New("upstream unavailable"),
			},
		},
		{
			name: "alert harvest failure",
			api: &fakeAPI{
				pets:      []surehub.Pet{{ID: 7, HouseholdID: 100}},
				reports:   map[int64]string{7: `{}`},
				notifyErr: errors.New("upstream unavailable"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := managerConfig(t)
			if err := newTestManager(tt.api, cfg).Run(context.Background()); err == nil {
				t.Fatal("Run() error = nil, want failure")
			}
			if _, err := os.Stat(cfg.Export.Output); !os.IsNotExist(err) {
				t.Errorf("export file exists after failed run, stat err = %v", err)
			}
		})
	}
}

// TestManagerRunFetchesPetsInOrder verifies reports are pulled in
// enumeration order
func TestManagerRunFetchesPetsInOrder(t *testing.T) {
	api := &fakeAPI{
		pets: []surehub.Pet{
			{ID: 3, HouseholdID: 100},
			{ID: 1, HouseholdID: 100},
			{ID: 2, HouseholdID: 100},
		},
		reports: map[int64]string{1: `{}`, 2: `{}`, 3: `{}`},
	}
	cfg := managerConfig(t)

	if err := newTestManager(api, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int64{3, 1, 2}
	if len(api.reportsCalled) != len(want) {
		t.Fatalf("fetched reports %v, want %v", api.reportsCalled, want)
	}
	for i, id := range want {
		if api.reportsCalled[i] != id {
			t.Errorf("report %d was pet %d, want %d", i, api.reportsCalled[i], id)
		}
	}
}
