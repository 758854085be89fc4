// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/annjackson/surepull/internal/models"
)

// csvHeader is the fixed column layout of the export file. Spreadsheet
// tooling built against existing exports depends on these names and their
// order.
var csvHeader = []string{
	"Recorded At",
	"Pet ID",
	"Pet Name",
	"Type",
	"Amount",
	"Timestamp",
	"Duration",
	"Device ID",
	"Context",
	"Endpoint",
}

// utf8BOM is prepended to the file so Excel detects UTF-8 encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes the ledger to path. The file is written to a
// temporary sibling first and renamed into place, so a failed run never
// leaves a truncated export behind: the output is either complete or
// absent.
func WriteCSV(path string, events []models.UnifiedEvent) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeEvents(tmp, events); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary export file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("moving export into place: %w", err)
	}
	return nil
}

func writeEvents(f *os.File, events []models.UnifiedEvent) error {
	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing byte order mark: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for i, event := range events {
		if err := w.Write(eventRow(event)); err != nil {
			return fmt.Errorf("writing export row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}

// eventRow flattens one event into CSV cells. The subject collapses into
// the "Pet ID" column here and only here: pet and device subjects both
// contribute their identifier, an absent subject leaves the cell empty.
func eventRow(event models.UnifiedEvent) []string {
	return []string{
		event.RecordedAt,
		subjectCell(event.Subject),
		event.PetName,
		string(event.Type),
		floatCell(event.Amount),
		event.Timestamp,
		floatCell(event.Duration),
		intCell(event.DeviceID),
		intCell(event.Context),
		event.Endpoint,
	}
}

func subjectCell(subject models.Subject) string {
	if subject.Kind == models.SubjectNone {
		return ""
	}
	return strconv.FormatInt(subject.ID, 10)
}

func floatCell(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func intCell(value *int64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(*value, 10)
}
