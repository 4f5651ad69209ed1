// Package solarapi implements domain.PropertyProvider against the hosted
// building-insights API. A 404 from the API means the address is outside
// provider coverage and is reported as an empty result, not an error.
package solarapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/observability"
)

// Client implements domain.PropertyProvider over HTTP.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a solar-data API client.
func NewClient(key, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup fetches owner and solar payloads for an address.
func (c *Client) Lookup(ctx context.Context, address string, geo domain.Geo) (domain.LookupResult, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.key},
	}
	if geo.Lat != 0 || geo.Lon != 0 {
		params.Set("lat", strconv.FormatFloat(geo.Lat, 'f', 6, 64))
		params.Set("lon", strconv.FormatFloat(geo.Lon, 'f', 6, 64))
	}

	fullURL := fmt.Sprintf("%s/insights?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.LookupResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.LookupResult{}, fmt.Errorf("insights request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Outside provider coverage.
		return domain.LookupResult{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.LookupResult{}, fmt.Errorf("solar API error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.LookupResult{}, fmt.Errorf("decode response: %w", err)
	}

	return apiResp.toDomain(), nil
}

// Solar API response types.

type response struct {
	Owner *ownerPayload `json:"owner"`
	Solar *solarPayload `json:"solar"`
}

type ownerPayload struct {
	Name string `json:"name"`
}

type solarPayload struct {
	HasPanels        bool    `json:"has_panels"`
	PanelCount       int     `json:"panel_count"`
	SystemSizeKW     float64 `json:"system_size_kw"`
	InstallationYear int     `json:"installation_year"`
	PotentialScore   *int    `json:"potential_score"`
}

func (r response) toDomain() domain.LookupResult {
	var result domain.LookupResult
	if r.Owner != nil {
		result.Owner = &domain.OwnerResult{Name: r.Owner.Name}
	}
	if r.Solar != nil {
		result.Solar = &domain.SolarResult{
			HasPanels:        r.Solar.HasPanels,
			PanelCount:       r.Solar.PanelCount,
			SystemSizeKW:     r.Solar.SystemSizeKW,
			InstallationYear: r.Solar.InstallationYear,
			Score:            r.Solar.PotentialScore,
		}
	}
	return result
}
