// Surepull - SurePetcare Activity Export
// Copyright 2026 Ann Jackson (annjackson)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/annjackson/surepull

// Package surehub implements a client for the SurePetcare cloud API
// (https://app.api.surehub.io).
//
// The client covers the four endpoints the exporter consumes:
//
//   - POST /api/auth/login: exchange credentials for a bearer token
//   - GET  /api/pet: list pets and their household
//   - GET  /api/report/household/{hid}/pet/{pid}/aggregate: per-pet
//     structured activity data for a date range
//   - GET  /api/notification: paginated free-text alert feed
//
// Resilience:
//   - HTTP 429 responses are retried with exponential backoff
//     (1s, 2s, 4s, 8s, 16s), honoring a Retry-After header when present
//   - Any other non-success status is an error; the exporter treats it as
//     fatal for the whole run
//   - All methods accept context for cancellation; backoff waits are
//     cancellable
//
// Thread Safety: a Client is safe for concurrent use after Login, though the
// exporter itself is strictly sequential.
package surehub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/annjackson/surepull/internal/config"
)

// maxErrorBodySize limits how much of a response body is read for error
// reporting, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// Client handles communication with the SureHub HTTP API.
//
// Example:
//
//	client := surehub.NewClient(&cfg.SureHub)
//	if err := client.Login(ctx); err != nil {
//	    return err
//	}
//	pets, err := client.Pets(ctx)
type Client struct {
	baseURL        string
	email          string
	password       string
	deviceID       string
	token          string
	client         *http.Client
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a SureHub API client from the provided configuration.
func NewClient(cfg *config.SureHubConfig) *Client {
	return &Client{
		baseURL:  cfg.URL,
		email:    cfg.Email,
		password: cfg.Password,
		deviceID: cfg.DeviceID,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries:     5,               // Allow up to 5 retries for rate limiting
		retryBaseDelay: 1 * time.Second, // Start with 1 second, doubles each retry
	}
}

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// doRequestWithRateLimit performs an HTTP request with automatic rate limit
// handling. Implements exponential backoff for HTTP 429 responses.
// The body factory is called per attempt because a request body cannot be
// reused after a failed attempt.
func (c *Client) doRequestWithRateLimit(ctx context.Context, method, reqURL string, body func() io.Reader) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Check context before attempting request
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var reqBody io.Reader = http.NoBody
		if body != nil {
			reqBody = body()
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		// Success - return response
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close() // Explicitly ignore error - will retry anyway

		// Last attempt - return error
		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		// Calculate exponential backoff delay: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Check for Retry-After header (RFC 6585)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		// Use cancellable wait instead of time.Sleep
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// getJSON performs a GET request and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, reqURL, what string, result interface{}) error {
	resp, err := c.doRequestWithRateLimit(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to make %s request: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", what, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", what, err)
	}

	return nil
}

// Login exchanges the configured credentials for a bearer token.
// The token is stored on the client and attached to all subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"email_address": c.email,
		"password":      c.password,
		"device_id":     c.deviceID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login payload: %w", err)
	}

	reqURL := c.baseURL + "/api/auth/login"
	resp, err := c.doRequestWithRateLimit(ctx, http.MethodPost, reqURL, func() io.Reader {
		return bytes.NewReader(payload)
	})
	if err != nil {
		return fmt.Errorf("failed to make login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(body))
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if login.Data.Token == "" {
		return fmt.Errorf("login response contained no token")
	}

	c.token = login.Data.Token
	return nil
}

// Pets retrieves all pets registered under the account.
// The owning household is derived from the records (each pet carries its
// household_id).
func (c *Client) Pets(ctx context.Context) ([]Pet, error) {
	var pets petsResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/pet", "pet listing", &pets); err != nil {
		return nil, err
	}
	return pets.Data, nil
}

// AggregateReport retrieves the structured activity report for one pet over
// the given ISO calendar-date range (inclusive).
func (c *Client) AggregateReport(ctx context.Context, householdID, petID int64, from, to string) (AggregateReport, error) {
	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)

	reqURL := fmt.Sprintf("%s/api/report/household/%d/pet/%d/aggregate?%s",
		c.baseURL, householdID, petID, params.Encode())

	var report reportResponse
	if err := c.getJSON(ctx, reqURL, "aggregate report", &report); err != nil {
		return nil, err
	}
	return report.Data, nil
}

// Notifications retrieves one page of the alert feed. Pages are 1-indexed.
// An empty slice means the feed is exhausted.
func (c *Client) Notifications(ctx context.Context, page, pageSize int) ([]Notification, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("page_size", fmt.Sprintf("%d", pageSize))

	reqURL := fmt.Sprintf("%s/api/notification?%s", c.baseURL, params.Encode())

	var notes notificationsResponse
	if err := c.getJSON(ctx, reqURL, "notification", &notes); err != nil {
		return nil, err
	}
	return notes.Data, nil
}
