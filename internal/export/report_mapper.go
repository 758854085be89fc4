// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

// Package export implements the reconciliation and normalization layer of
// Surepull: it turns per-pet aggregate reports and free-text notification
// alerts into one ordered ledger of UnifiedEvents and serializes it to CSV.
//
// The two normalizers are pure transforms over already-fetched data. They
// never fail: structurally anomalous report sections and unparseable alert
// text degrade locally (skipped records, nil fields) so a single bad record
// never forfeits the rest of the export.
package export

import (
	"sort"

	"github.com/goccy/go-json"

	"github.com/annjackson/surepull/internal/models"
	"github.com/annjackson/surepull/internal/surehub"
)

// categoryEventTypes maps report category names to event types. Categories
// outside this table normalize to Unknown rather than being dropped.
var categoryEventTypes = map[string]models.EventType{
	"feeding":  models.TypeFood,
	"drinking": models.TypeWater,
	"movement": models.TypeMovement,
}

// canonicalCategories fixes the traversal order of the known categories.
// JSON object order is lost when decoding into a map, so the normalizer
// imposes its own deterministic order: known categories first, then any
// remaining categories sorted by name. Re-running on the same input must
// yield an identical event sequence.
var canonicalCategories = []string{"feeding", "drinking", "movement"}

// NormalizeReport maps one pet's aggregate report into UnifiedEvents.
//
// For each category it decodes the datapoint collection and emits one event
// per well-formed record, in record order. A category whose datapoints are
// missing or not list-shaped yields no events; a list element that is not a
// well-formed record is skipped. Sub-field extraction degrades to nil, never
// to an error.
func NormalizeReport(report surehub.AggregateReport, pet surehub.Pet, endpoint, recordedAt string) []models.UnifiedEvent {
	var events []models.UnifiedEvent

	for _, category := range reportCategories(report) {
		section := report[category]
		eventType, ok := categoryEventTypes[category]
		if !ok {
			eventType = models.TypeUnknown
		}

		for _, record := range decodeDatapoints(section.Datapoints) {
			events = append(events, datapointEvent(record, pet, eventType, endpoint, recordedAt))
		}
	}

	return events
}

// reportCategories returns the deterministic traversal order for a report:
// canonical categories that are present, then the rest sorted by name.
func reportCategories(report surehub.AggregateReport) []string {
	categories := make([]string, 0, len(report))
	seen := make(map[string]bool, len(canonicalCategories))

	for _, name := range canonicalCategories {
		if _, ok := report[name]; ok {
			categories = append(categories, name)
			seen[name] = true
		}
	}

	var extra []string
	for name := range report {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(categories, extra...)
}

// decodeDatapoints decodes a raw datapoint collection, tolerating shape
// anomalies: a missing or non-array collection yields nil, and elements that
// are not well-formed records are dropped.
func decodeDatapoints(raw json.RawMessage) []surehub.Datapoint {
	if len(raw) == 0 {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		// Not list-shaped; skip the whole category
		return nil
	}

	records := make([]surehub.Datapoint, 0, len(elements))
	for _, element := range elements {
		var record surehub.Datapoint
		if err := json.Unmarshal(element, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// datapointEvent builds the UnifiedEvent for one well-formed report record.
func datapointEvent(record surehub.Datapoint, pet surehub.Pet, eventType models.EventType, endpoint, recordedAt string) models.UnifiedEvent {
	timestamp := ""
	if record.To != nil {
		timestamp = *record.To
	}

	return models.UnifiedEvent{
		RecordedAt: recordedAt,
		Provenance: models.ProvenanceReport,
		Subject:    models.PetSubject(pet.ID),
		PetName:    petDisplayName(pet.Name),
		Type:       eventType,
		Amount:     firstWeightChange(record.Weights),
		Timestamp:  timestamp,
		Duration:   record.Duration,
		DeviceID:   record.DeviceID,
		Context:    record.Context,
		Endpoint:   endpoint,
	}
}

// petDisplayName falls back to "Primary" when the source omits the name.
func petDisplayName(name string) string {
	if name == "" {
		return "Primary"
	}
	return name
}

// firstWeightChange extracts the change value of the first weight entry, if
// the weights value is a non-empty array whose first element is a record
// carrying one. Anything else means no measured amount.
func firstWeightChange(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return nil
	}

	var first surehub.WeightEntry
	if err := json.Unmarshal(entries[0], &first); err != nil {
		return nil
	}
	return first.Change
}
