// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

// Command surepull performs a one-shot export of pet activity telemetry
// from the SurePetcare cloud API to a CSV file.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variable overrides. See internal/config for the full
// surface. The process exits non-zero when any stage of the export fails;
// the output file is only ever complete or absent.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/annjackson/surepull/internal/config"
	"github.com/annjackson/surepull/internal/export"
	"github.com/annjackson/surepull/internal/logging"
	"github.com/annjackson/surepull/internal/surehub"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Export failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		// Logging config may not have loaded; fall back to stderr
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// Tag every line of this run with a correlation ID
	runID := uuid.NewString()
	logging.SetLogger(logging.Logger().With().Str("run_id", runID).Logger())

	logging.Info().
		Str("version", version).
		Str("from", cfg.Export.From).
		Str("to", cfg.Export.To).
		Msg("Starting SurePetcare export")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := surehub.NewClient(&cfg.SureHub)
	manager := export.NewManager(client, cfg)
	return manager.Run(ctx)
}
