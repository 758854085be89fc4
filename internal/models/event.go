// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

// Package models defines the unified event schema produced by the export run.
//
// Every row of the output file is a UnifiedEvent. Events come from exactly one
// of two upstream sources:
//
//   - Aggregate reports: structured per-pet activity summaries (feeding,
//     drinking, movement) fetched per date range.
//   - Notification alerts: free-text water-consumption messages harvested from
//     the paginated notification feed.
//
// The two sources attribute events to different kinds of subjects. Report
// events belong to a pet; alert events carry no pet identity and are
// attributed to the dispensing device instead. The on-disk format shares a
// single "Pet ID" column for both, so the in-memory model keeps the identity
// discriminated (Subject) and only collapses it at the serialization boundary.
package models

// Provenance identifies which upstream source produced an event.
type Provenance string

const (
	// ProvenanceReport marks events derived from per-pet aggregate reports.
	ProvenanceReport Provenance = "report"
	// ProvenanceAlert marks events derived from the notification feed.
	ProvenanceAlert Provenance = "alert"
)

// EventType is the closed set of activity categories an event can carry.
type EventType string

const (
	TypeFood     EventType = "Food"
	TypeWater    EventType = "Water"
	TypeMovement EventType = "Movement"
	TypeUnknown  EventType = "Unknown"
)

// SubjectKind discriminates what kind of identity a Subject holds.
type SubjectKind int

const (
	// SubjectNone means no identity could be attributed (e.g. an alert whose
	// device name is not in the configured mapping).
	SubjectNone SubjectKind = iota
	// SubjectPet means the ID is a pet identifier from the pet listing.
	SubjectPet
	// SubjectDevice means the ID is a hardware device identifier resolved from
	// the alert device-name mapping.
	SubjectDevice
)

// Subject is the discriminated identity an event is attributed to.
// Report events carry a pet identity; alert events carry a device identity or
// none at all. The flat "Pet ID" output column is derived from this.
type Subject struct {
	Kind SubjectKind
	ID   int64
}

// PetSubject returns a Subject attributing an event to a pet.
func PetSubject(id int64) Subject {
	return Subject{Kind: SubjectPet, ID: id}
}

// DeviceSubject returns a Subject attributing an event to a device.
func DeviceSubject(id int64) Subject {
	return Subject{Kind: SubjectDevice, ID: id}
}

// UnifiedEvent is the single normalized record schema spanning both source
// provenances. Optional fields are pointers: nil means the source did not
// provide the value or it could not be parsed, which is distinct from zero.
type UnifiedEvent struct {
	// RecordedAt is the export run timestamp (RFC 3339 UTC), identical across
	// every event of one run. It marks provenance of the export itself, not
	// the underlying activity.
	RecordedAt string

	// Provenance tags which source pathway produced this event.
	Provenance Provenance

	// Subject is the discriminated pet-or-device identity.
	Subject Subject

	// PetName is the pet display name for report events, or the device display
	// name extracted from the alert text for alert events.
	PetName string

	// Type is the activity category.
	Type EventType

	// Amount is the signed quantity. Report events carry the measured weight
	// change as reported; alert events carry the consumed volume negated to
	// mark water leaving the reservoir. Nil when the source provided no
	// measurable value.
	Amount *float64

	// Timestamp is the event-occurrence time exactly as reported by the source
	// (interval end for report datapoints, creation time for alerts). Carried
	// as the raw source string; parsing it would add a failure mode the
	// tolerant transforms must not have.
	Timestamp string

	// Duration is the event duration in source units, if provided. Always nil
	// for alert events.
	Duration *float64

	// DeviceID is the originating hardware identifier, if known.
	DeviceID *int64

	// Context is the source auxiliary code: raw pass-through for report
	// events, a fixed sentinel for alert events.
	Context *int64

	// Endpoint names the logical source query that produced the record.
	Endpoint string
}
