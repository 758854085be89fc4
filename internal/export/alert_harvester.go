// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

package export

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/annjackson/surepull/internal/config"
	"github.com/annjackson/surepull/internal/logging"
	"github.com/annjackson/surepull/internal/surehub"
)

// NotificationFetcher retrieves one page of notifications. Satisfied by
// surehub.Client.
type NotificationFetcher interface {
	Notifications(ctx context.Context, page, pageSize int) ([]surehub.Notification, error)
}

// AlertHarvester walks the notification feed page by page, pacing requests
// with a fixed cooldown so the export stays well under the cloud API's rate
// limits. Harvesting stops at the first empty page (the normal end of the
// feed) or at the configured page ceiling, whichever comes first.
type AlertHarvester struct {
	fetcher  NotificationFetcher
	pageSize int
	maxPages int
	limiter  *rate.Limiter
}

// NewAlertHarvester builds a harvester from the alert pagination settings.
func NewAlertHarvester(fetcher NotificationFetcher, cfg *config.AlertsConfig) *AlertHarvester {
	return &AlertHarvester{
		fetcher:  fetcher,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		limiter:  rate.NewLimiter(rate.Every(cfg.Cooldown), 1),
	}
}

// Harvest collects all notifications up to the page ceiling. A fetch error
// aborts the harvest; pages already collected are discarded because a
// partial alert history would silently understate consumption.
func (h *AlertHarvester) Harvest(ctx context.Context) ([]surehub.Notification, error) {
	var collected []surehub.Notification

	for page := 1; page <= h.maxPages; page++ {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for notification page cooldown: %w", err)
		}

		notifications, err := h.fetcher.Notifications(ctx, page, h.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching notification page %d: %w", page, err)
		}

		if len(notifications) == 0 {
			logging.Debug().Int("page", page).Msg("Notification feed exhausted")
			break
		}

		collected = append(collected, notifications...)
		logging.Debug().
			Int("page", page).
			Int("page_count", len(notifications)).
			Int("total", len(collected)).
			Msg("Harvested notification page")

		if page == h.maxPages {
			logging.Warn().
				Int("max_pages", h.maxPages).
				Int("total", len(collected)).
				Msg("Notification page ceiling reached, feed may be truncated")
		}
	}

	return collected, nil
}
