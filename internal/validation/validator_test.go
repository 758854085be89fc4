// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package validation

import (
	"strings"
	"testing"
)

type sampleConfig struct {
	Email string `validate:"required,email"`
	From  string `validate:"required,isodate"`
	Pages int    `validate:"min=1"`
}

func validSample() sampleConfig {
	return sampleConfig{
		Email: "owner@example.com",
		From:  "2026-01-01",
		Pages: 25,
	}
}

// TestGetValidatorSingleton verifies repeated calls return the same
// instance
func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

// TestValidateStruct tests per-field validation and message translation
func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *sampleConfig)
		wantErr string
	}{
		{
			name:   "valid struct passes",
			mutate: func(*sampleConfig) {},
		},
		{
			name:    "missing required field",
			mutate:  func(s *sampleConfig) { s.Email = "" },
			wantErr: "Email is required",
		},
		{
			name:    "malformed email",
			mutate:  func(s *sampleConfig) { s.Email = "not-an-email" },
			wantErr: "valid email address",
		},
		{
			name:    "malformed date",
			mutate:  func(s *sampleConfig) { s.From = "15 Jan 2026" },
			wantErr: "YYYY-MM-DD",
		},
		{
			name:    "below minimum",
			mutate:  func(s *sampleConfig) { s.Pages = 0 },
			wantErr: "at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := validSample()
			tt.mutate(&sample)

			err := ValidateStruct(sample)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() error = nil, want failure")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

// TestValidateStructCollectsAllErrors verifies every failing field is
// reported, not just the first
func TestValidateStructCollectsAllErrors(t *testing.T) {
	err := ValidateStruct(sampleConfig{})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want failure")
	}
	if got := len(err.Errors()); got != 3 {
		t.Errorf("got %d field errors, want 3: %v", got, err)
	}
}

// TestParseISODate tests the date layout shared with the isodate tag
func TestParseISODate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"2026-01-15", true},
		{"2026-1-15", false},
		{"15-01-2026", false},
		{"2026-01-15T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		_, err := ParseISODate(tt.input)
		if (err == nil) != tt.valid {
			t.Errorf("ParseISODate(%q) err = %v, want valid=%v", tt.input, err, tt.valid)
		}
	}
}
