// Package esi calls the EVE Swagger Interface for universe reference data and
// activity snapshots. Every call is a single GET; retrying is the caller's
// concern.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"esi-server/internal/shared/config"
)

// StatusError is returned when ESI answers with a non-200 status.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("esi %s returned status %d", e.Path, e.StatusCode)
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.ESIConfig, logger *slog.Logger) *Client {
	logger.Debug("Initializing ESI client", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "esi_client"),
	}
}

func (c *Client) SystemIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := c.getJSON(ctx, "/universe/systems/", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) System(ctx context.Context, systemID int) (*SystemInfo, error) {
	var system SystemInfo
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/systems/%d/", systemID), &system); err != nil {
		return nil, err
	}
	return &system, nil
}

func (c *Client) Planet(ctx context.Context, planetID int) (*PlanetInfo, error) {
	var planet PlanetInfo
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/planets/%d/", planetID), &planet); err != nil {
		return nil, err
	}
	return &planet, nil
}

func (c *Client) SystemKills(ctx context.Context) ([]SystemKill, error) {
	var kills []SystemKill
	if err := c.getJSON(ctx, "/universe/system_kills/", &kills); err != nil {
		return nil, err
	}
	return kills, nil
}

func (c *Client) SystemJumps(ctx context.Context) ([]SystemJump, error) {
	var jumps []SystemJump
	if err := c.getJSON(ctx, "/universe/system_jumps/", &jumps); err != nil {
		return nil, err
	}
	return jumps, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	logger := c.logger.With("operation", "get", "path", path)
	logger.Debug("Requesting ESI resource")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("ESI request failed", "error", err)
		return fmt.Errorf("failed to request %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("ESI returned error status", "status_code", resp.StatusCode, "status", resp.Status)
		return &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}
