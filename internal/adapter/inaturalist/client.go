// Package inaturalist fetches modern species observations from the
// iNaturalist API. The API enforces 60 requests per minute, so the courtesy
// delay between pages is longer than for other sources.
package inaturalist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

const source = "inaturalist"

// FallbackPlaceID is the known iNaturalist place for Buncombe County, used
// when neither place lookup strategy finds a match.
const FallbackPlaceID = 1267

// Species is one species from a species-counts query.
type Species struct {
	TaxonID            int
	ScientificName     string
	CommonName         string
	Rank               string
	IconicTaxon        string
	Observations       int
	WikipediaURL       string
	PhotoURL           string
	ConservationStatus string
	SourceURL          string
}

// Client pages through iNaturalist species counts and observation totals.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	delay      time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an iNaturalist client using the configured page size,
// courtesy delay, and request timeout.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.SourceTimeout,
		},
		baseURL:  "https://api.inaturalist.org/v1",
		pageSize: cfg.INatPageSize,
		delay:    cfg.INatCourtesyDelay,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
}

// FindPlaceID resolves a county name to an iNaturalist place. It tries an
// autocomplete search at county admin level, then a coordinate-nearby
// search, then falls back to the known place ID.
func (c *Client) FindPlaceID(ctx context.Context, county, state string, lat, lon float64) int {
	params := url.Values{
		"q":           {county + " County"},
		"admin_level": {"2"},
	}
	var auto autocompleteResponse
	if err := c.get(ctx, "/places/autocomplete", params, &auto); err != nil {
		c.logger.Warn("place autocomplete failed", "error", err)
	} else {
		for _, p := range auto.Results {
			if strings.Contains(p.DisplayName, county) && strings.Contains(p.DisplayName, state) {
				c.logger.Info("place resolved", "place_id", p.ID, "display_name", p.DisplayName)
				return p.ID
			}
		}
	}

	params = url.Values{
		"lat": {fmt.Sprintf("%g", lat)},
		"lng": {fmt.Sprintf("%g", lon)},
	}
	var nearby nearbyResponse
	if err := c.get(ctx, "/places/nearby", params, &nearby); err != nil {
		c.logger.Warn("place nearby lookup failed", "error", err)
	} else {
		for _, p := range nearby.Results.Standard {
			if p.AdminLevel == 2 {
				c.logger.Info("place resolved by coordinates", "place_id", p.ID, "display_name", p.DisplayName)
				return p.ID
			}
		}
	}

	c.logger.Info("using fallback place", "place_id", FallbackPlaceID)
	return FallbackPlaceID
}

// FetchSpeciesCounts pages through verifiable species counts for a taxon in
// a place until total_results is reached. On a page error it returns the
// species accumulated so far with that error.
func (c *Client) FetchSpeciesCounts(ctx context.Context, placeID, taxonID int) ([]Species, error) {
	var all []Species
	page := 1

	for {
		params := url.Values{
			"place_id":      {strconv.Itoa(placeID)},
			"taxon_id":      {strconv.Itoa(taxonID)},
			"per_page":      {strconv.Itoa(c.pageSize)},
			"page":          {strconv.Itoa(page)},
			"verifiable":    {"true"},
			"quality_grade": {"research,needs_id"},
		}

		var resp speciesCountsResponse
		if err := c.get(ctx, "/observations/species_counts", params, &resp); err != nil {
			c.metrics.FetchErrors.WithLabelValues(source).Inc()
			return all, err
		}

		c.metrics.PagesFetched.WithLabelValues(source).Inc()
		c.metrics.RecordsFetched.WithLabelValues(source).Add(float64(len(resp.Results)))

		if len(resp.Results) == 0 {
			return all, nil
		}
		for _, r := range resp.Results {
			all = append(all, r.toSpecies())
		}
		if len(all) >= resp.TotalResults {
			return all, nil
		}

		page++
		if err := c.sleep(ctx); err != nil {
			return all, err
		}
	}
}

// FetchMonthlyCounts returns the total observation count of a taxon in a
// place for each month 1-12. A failed month counts as zero rather than
// ending the loop; the pattern stays structurally complete.
func (c *Client) FetchMonthlyCounts(ctx context.Context, placeID, taxonID int) (map[int]int, error) {
	counts := make(map[int]int, 12)

	for month := 1; month <= 12; month++ {
		params := url.Values{
			"place_id":   {strconv.Itoa(placeID)},
			"taxon_id":   {strconv.Itoa(taxonID)},
			"month":      {strconv.Itoa(month)},
			"verifiable": {"true"},
			"per_page":   {"0"},
		}

		var resp totalResponse
		if err := c.get(ctx, "/observations", params, &resp); err != nil {
			if ctx.Err() != nil {
				return counts, ctx.Err()
			}
			c.metrics.FetchErrors.WithLabelValues(source).Inc()
			c.logger.Warn("monthly count failed", "month", month, "error", err)
			counts[month] = 0
			continue
		}

		c.metrics.PagesFetched.WithLabelValues(source).Inc()
		counts[month] = resp.TotalResults

		if month < 12 {
			if err := c.sleep(ctx); err != nil {
				return counts, err
			}
		}
	}
	return counts, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inaturalist API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.delay):
		return nil
	}
}

// iNaturalist API response types.

type place struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	AdminLevel  int    `json:"admin_level"`
}

type autocompleteResponse struct {
	Results []place `json:"results"`
}

type nearbyResponse struct {
	Results struct {
		Standard []place `json:"standard"`
	} `json:"results"`
}

type speciesCountsResponse struct {
	TotalResults int                  `json:"total_results"`
	Results      []speciesCountResult `json:"results"`
}

type speciesCountResult struct {
	Count int `json:"count"`
	Taxon struct {
		ID                  int    `json:"id"`
		Name                string `json:"name"`
		PreferredCommonName string `json:"preferred_common_name"`
		Rank                string `json:"rank"`
		IconicTaxonName     string `json:"iconic_taxon_name"`
		WikipediaURL        string `json:"wikipedia_url"`
		DefaultPhoto        *struct {
			MediumURL string `json:"medium_url"`
		} `json:"default_photo"`
		ConservationStatus *struct {
			Status string `json:"status"`
		} `json:"conservation_status"`
	} `json:"taxon"`
}

func (r speciesCountResult) toSpecies() Species {
	s := Species{
		TaxonID:        r.Taxon.ID,
		ScientificName: r.Taxon.Name,
		CommonName:     r.Taxon.PreferredCommonName,
		Rank:           r.Taxon.Rank,
		IconicTaxon:    r.Taxon.IconicTaxonName,
		Observations:   r.Count,
		WikipediaURL:   r.Taxon.WikipediaURL,
	}
	if r.Taxon.ID != 0 {
		s.SourceURL = fmt.Sprintf("https://www.inaturalist.org/taxa/%d", r.Taxon.ID)
	}
	if r.Taxon.DefaultPhoto != nil {
		s.PhotoURL = r.Taxon.DefaultPhoto.MediumURL
	}
	if r.Taxon.ConservationStatus != nil {
		s.ConservationStatus = r.Taxon.ConservationStatus.Status
	}
	return s
}

type totalResponse struct {
	TotalResults int `json:"total_results"`
}
