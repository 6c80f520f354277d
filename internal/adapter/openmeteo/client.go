// Package openmeteo fetches daily historical weather from the Open-Meteo
// archive API. The archive starts in 1940; earlier years are synthesized
// downstream from decade averages.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

const source = "openmeteo"

// ArchiveStartYear is the first year the archive has observed data for.
const ArchiveStartYear = 1940

// Daily holds parallel per-day series; values are pointers because the
// archive reports null for days without observations.
type Daily struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	RainSum          []*float64 `json:"rain_sum"`
	SnowfallSum      []*float64 `json:"snowfall_sum"`
}

// Archive is the response of one archive query.
type Archive struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Daily     Daily   `json:"daily"`
}

// Client fetches the daily archive in a single request per run; the archive
// API has no pagination.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo archive client with the configured
// request timeout.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.SourceTimeout,
		},
		baseURL: "https://archive-api.open-meteo.com/v1/archive",
		logger:  logger,
		metrics: metrics,
	}
}

// FetchDailyArchive retrieves the daily weather series for the location
// over the inclusive year range.
func (c *Client) FetchDailyArchive(ctx context.Context, lat, lon float64, startYear, endYear int) (Archive, error) {
	params := url.Values{
		"latitude":   {fmt.Sprintf("%g", lat)},
		"longitude":  {fmt.Sprintf("%g", lon)},
		"start_date": {fmt.Sprintf("%d-01-01", startYear)},
		"end_date":   {fmt.Sprintf("%d-12-31", endYear)},
		"daily":      {"temperature_2m_max,temperature_2m_min,precipitation_sum,rain_sum,snowfall_sum"},
		"timezone":   {"America/New_York"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Archive{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		return Archive{}, fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		body, _ := io.ReadAll(resp.Body)
		return Archive{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var archive Archive
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		return Archive{}, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.PagesFetched.WithLabelValues(source).Inc()
	c.metrics.RecordsFetched.WithLabelValues(source).Add(float64(len(archive.Daily.Time)))

	c.logger.Info("daily archive fetched",
		"start_year", startYear,
		"end_year", endYear,
		"days", len(archive.Daily.Time))
	return archive, nil
}

// Date parses one entry of the daily time series.
func Date(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
