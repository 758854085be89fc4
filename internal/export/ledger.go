// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import "github.com/annjackson/surepull/internal/models"

// Ledger accumulates the events of one export run. It is append-only: the
// output preserves the order in which normalizers produced events, with all
// report-derived events ahead of alert-derived ones.
type Ledger struct {
	events []models.UnifiedEvent
}

// Append adds events to the end of the ledger.
func (l *Ledger) Append(events ...models.UnifiedEvent) {
	l.events = append(l.events, events...)
}

// Events returns the accumulated events in insertion order.
func (l *Ledger) Events() []models.UnifiedEvent {
	return l.events
}

// Len reports the number of accumulated events.
func (l *Ledger) Len() int {
	return len(l.events)
}
