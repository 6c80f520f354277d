// Package edi lists long-term research data packages from the EDI
// repository. The package list endpoint returns plain text, one package ID
// per line.
package edi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

const source = "edi"

// CoweetaScope is the EDI scope holding the Coweeta Hydrologic Laboratory
// datasets.
const CoweetaScope = "knb-lter-cwt"

// Client lists dataset package IDs for an EDI scope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an EDI repository client with the configured request
// timeout.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.SourceTimeout,
		},
		baseURL: "https://pasta.lternet.edu/package",
		logger:  logger,
		metrics: metrics,
	}
}

// ListPackages returns the package IDs available under a scope.
func (c *Client) ListPackages(ctx context.Context, scope string) ([]string, error) {
	u := fmt.Sprintf("%s/eml/%s", c.baseURL, scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("edi API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("read package list: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}

	c.metrics.PagesFetched.WithLabelValues(source).Inc()
	c.metrics.RecordsFetched.WithLabelValues(source).Add(float64(len(ids)))

	c.logger.Info("package list fetched", "scope", scope, "packages", len(ids))
	return ids, nil
}
