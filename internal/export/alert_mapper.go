// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import (
	"github.com/annjackson/surepull/internal/models"
	"github.com/annjackson/surepull/internal/surehub"
)

const (
	// waterAlertType is the notification type code of water consumption
	// alerts. All other notification types carry no telemetry and are
	// filtered out.
	waterAlertType = 34

	// alertContext marks alert-derived events in the Context column,
	// distinguishing them from report-derived events whose context comes
	// from the source record.
	alertContext int64 = 1

	// notificationEndpoint is the provenance recorded on alert-derived
	// events.
	notificationEndpoint = "/api/notification"
)

// NormalizeAlerts maps harvested notifications into UnifiedEvents.
//
// Only water consumption alerts produce events; everything else is dropped.
// The consumed magnitude is negated because the alert reports water leaving
// the fountain reservoir. The reporting device name resolves to a device
// subject through deviceMap when a mapping exists; unmapped names keep the
// name but carry no subject identifier. Alerts whose text yields no
// magnitude still produce an event with a nil amount, preserving the record
// of the alert itself.
func NormalizeAlerts(notifications []surehub.Notification, deviceMap map[string]int64, recordedAt string) []models.UnifiedEvent {
	var events []models.UnifiedEvent

	for _, note := range notifications {
		if note.Type != waterAlertType {
			continue
		}

		magnitude, deviceName := ParseAlertText(note.Text)

		var amount *float64
		if magnitude != nil {
			consumed := -*magnitude
			amount = &consumed
		}

		// A mapped device fills both the subject and the device column,
		// mirroring the flat schema where alert rows carry the device
		// identity in the Pet ID slot.
		subject := models.Subject{Kind: models.SubjectNone}
		var deviceID *int64
		if id, ok := deviceMap[deviceName]; ok {
			subject = models.DeviceSubject(id)
			deviceID = &id
		}

		context := alertContext
		events = append(events, models.UnifiedEvent{
			RecordedAt: recordedAt,
			Provenance: models.ProvenanceAlert,
			Subject:    subject,
			PetName:    deviceName,
			Type:       models.TypeWater,
			Amount:     amount,
			Timestamp:  note.CreatedAt,
			Duration:   nil,
			DeviceID:   deviceID,
			Context:    &context,
			Endpoint:   notificationEndpoint,
		})
	}

	return events
}
