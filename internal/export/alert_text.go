// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import (
	"regexp"
	"strconv"
	"strings"
)

// leadingMagnitude matches an integer magnitude at the very start of the
// alert text, e.g. the "150" in "150ml from Fountain 1". Magnitudes embedded
// later in the text are not consumption readings.
var leadingMagnitude = regexp.MustCompile(`^(\d+)`)

// deviceSeparator splits the consumed quantity from the reporting device in
// water alert text. Only the first occurrence separates; device names
// containing the separator remain intact.
const deviceSeparator = " from "

// ParseAlertText extracts the consumed magnitude and reporting device name
// from free-text water alert wording.
//
// The magnitude is the run of digits at the start of the text, returned as a
// positive value; text not starting with digits yields nil. The device name
// is everything after the first " from ", or the whole text when no
// separator is present. The function is a pure transform and never fails;
// callers decide how to interpret an absent magnitude.
func ParseAlertText(text string) (amount *float64, deviceName string) {
	if match := leadingMagnitude.FindStringSubmatch(text); match != nil {
		if value, err := strconv.ParseFloat(match[1], 64); err == nil {
			amount = &value
		}
	}

	deviceName = text
	if _, after, found := strings.Cut(text, deviceSeparator); found {
		deviceName = strings.TrimSpace(after)
	}

	return amount, deviceName
}
