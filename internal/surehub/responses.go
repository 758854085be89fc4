// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package surehub

import "github.com/goccy/go-json"

// All SureHub responses wrap their payload in a top-level "data" key.
// The wrapper types below are unexported; callers receive the payload only.

// loginResponse wraps the bearer token returned by POST /api/auth/login.
type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Pet is a pet record from GET /api/pet. Pets are registered under a
// household, which scopes the aggregate-report endpoint.
type Pet struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	HouseholdID int64  `json:"household_id"`
}

// petsResponse wraps the pet listing.
type petsResponse struct {
	Data []Pet `json:"data"`
}

// AggregateReport maps an activity-category name (feeding, drinking,
// movement, ...) to its section of the per-pet report.
type AggregateReport map[string]CategorySection

// CategorySection holds one category's record set. Datapoints stays raw
// because the API is not strict about its shape: a missing or non-array
// value must degrade to "no records for this category", never to a decode
// failure that would abort sibling categories.
type CategorySection struct {
	Datapoints json.RawMessage `json:"datapoints"`
}

// reportResponse wraps the per-pet aggregate report.
type reportResponse struct {
	Data AggregateReport `json:"data"`
}

// Datapoint is one well-formed record inside a category section.
// Every field is optional; absent fields decode to nil.
type Datapoint struct {
	// To is the interval-end timestamp, carried as the raw source string.
	To *string `json:"to"`

	// Duration is the event duration in source units.
	Duration *float64 `json:"duration"`

	// Weights holds weight-change entries. Raw for the same reason as
	// CategorySection.Datapoints: a malformed weights value means "no
	// measured amount", not a failed record.
	Weights json.RawMessage `json:"weights"`

	// DeviceID is the hardware identifier of the feeder/fountain/flap.
	DeviceID *int64 `json:"device_id"`

	// Context is an auxiliary code passed through to the output untouched.
	Context *int64 `json:"context"`
}

// WeightEntry is one element of a datapoint's weights array.
type WeightEntry struct {
	Change *float64 `json:"change"`
}

// Notification is one alert record from GET /api/notification.
type Notification struct {
	// Type is the alert category code. Water dispensed/removed alerts carry
	// a fixed code; other codes (e.g. maintenance reminders) are ignored by
	// the normalizer.
	Type int `json:"type"`

	// Text is the human-readable alert body, e.g. "150ml from Fountain 1".
	Text string `json:"text"`

	// CreatedAt is the alert creation time, carried as the raw source string.
	CreatedAt string `json:"created_at"`
}

// notificationsResponse wraps one page of the notification feed.
type notificationsResponse struct {
	Data []Notification `json:"data"`
}
