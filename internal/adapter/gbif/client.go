// Package gbif fetches occurrence records from the GBIF occurrence search
// API with offset pagination.
package gbif

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

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

const source = "gbif"

// Buncombe County bounding box, used alongside the county-name query to
// catch records whose county metadata is missing.
var countyBBox = config.BoundingBox{
	LatMin: 35.4,
	LatMax: 35.8,
	LonMin: -82.8,
	LonMax: -82.2,
}

// Client pages through GBIF occurrence searches. One request is in flight
// at a time, with a fixed courtesy delay between pages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	delay      time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a GBIF client using the configured page size, courtesy
// delay, and request timeout.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.SourceTimeout,
		},
		baseURL:  "https://api.gbif.org/v1",
		pageSize: cfg.GBIFPageSize,
		delay:    cfg.CourtesyDelay,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchCountyOccurrences fetches all occurrences of a taxon in the named
// county over the year range, combining a county-name query with a
// bounding-box query and deduplicating the union by GBIF key, first seen
// wins. On a page error it returns whatever was accumulated so far along
// with the error; partial results are still useful for historical data.
func (c *Client) FetchCountyOccurrences(ctx context.Context, taxonKey int, county, state string, startYear, endYear int) ([]domain.Occurrence, error) {
	countyParams := url.Values{
		"stateProvince": {state},
		"county":        {county},
		"year":          {fmt.Sprintf("%d,%d", startYear, endYear)},
		"taxonKey":      {strconv.Itoa(taxonKey)},
		"hasCoordinate": {"true"},
	}

	records, countyErr := c.paginate(ctx, countyParams)
	if countyErr != nil {
		c.logger.Warn("county search ended early", "taxon_key", taxonKey, "error", countyErr)
	}

	bboxRecords, bboxErr := c.paginate(ctx, bboxParams(countyBBox, taxonKey, startYear, endYear))
	if bboxErr != nil {
		c.logger.Warn("bbox search ended early", "taxon_key", taxonKey, "error", bboxErr)
	}

	merged, dropped := mergeDedup(records, bboxRecords)
	if dropped > 0 {
		c.metrics.DedupDropped.WithLabelValues(source).Add(float64(dropped))
	}

	c.logger.Info("county occurrences fetched",
		"taxon_key", taxonKey,
		"county_records", len(records),
		"bbox_records", len(bboxRecords),
		"unique", len(merged))

	occurrences := make([]domain.Occurrence, 0, len(merged))
	for _, rec := range merged {
		occurrences = append(occurrences, rec.toDomain())
	}

	if countyErr != nil {
		return occurrences, countyErr
	}
	return occurrences, bboxErr
}

// FetchBBoxOccurrences fetches all occurrences of a taxon inside a bounding
// box over the year range, excluding records with geospatial issues.
func (c *Client) FetchBBoxOccurrences(ctx context.Context, taxonKey int, box config.BoundingBox, startYear, endYear int) ([]domain.Occurrence, error) {
	params := bboxParams(box, taxonKey, startYear, endYear)
	params.Set("hasCoordinate", "true")
	params.Set("hasGeospatialIssue", "false")

	records, err := c.paginate(ctx, params)

	occurrences := make([]domain.Occurrence, 0, len(records))
	for _, rec := range records {
		occurrences = append(occurrences, rec.toDomain())
	}
	return occurrences, err
}

func bboxParams(box config.BoundingBox, taxonKey, startYear, endYear int) url.Values {
	return url.Values{
		"decimalLatitude":  {fmt.Sprintf("%g,%g", box.LatMin, box.LatMax)},
		"decimalLongitude": {fmt.Sprintf("%g,%g", box.LonMin, box.LonMax)},
		"year":             {fmt.Sprintf("%d,%d", startYear, endYear)},
		"taxonKey":         {strconv.Itoa(taxonKey)},
	}
}

// paginate walks offset pages until the source reports end of records or
// returns an empty page. An error on any page stops the loop and returns
// the records accumulated so far with that error.
func (c *Client) paginate(ctx context.Context, params url.Values) ([]occurrenceRecord, error) {
	var all []occurrenceRecord
	offset := 0

	for {
		page := cloneValues(params)
		page.Set("limit", strconv.Itoa(c.pageSize))
		page.Set("offset", strconv.Itoa(offset))

		resp, err := c.search(ctx, page)
		if err != nil {
			c.metrics.FetchErrors.WithLabelValues(source).Inc()
			return all, err
		}

		c.metrics.PagesFetched.WithLabelValues(source).Inc()
		c.metrics.RecordsFetched.WithLabelValues(source).Add(float64(len(resp.Results)))

		all = append(all, resp.Results...)

		if resp.EndOfRecords || len(resp.Results) == 0 {
			return all, nil
		}

		offset += c.pageSize
		if err := c.sleep(ctx); err != nil {
			return all, err
		}
	}
}

func (c *Client) search(ctx context.Context, params url.Values) (searchResponse, error) {
	u := c.baseURL + "/occurrence/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return searchResponse{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("occurrence search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return searchResponse{}, fmt.Errorf("gbif API error: status %d: %s", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return searchResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return sr, nil
}

func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.delay):
		return nil
	}
}

// mergeDedup unions two record lists by GBIF key, keeping the first-seen
// copy of each record, and reports how many duplicates were dropped.
func mergeDedup(first, second []occurrenceRecord) ([]occurrenceRecord, int) {
	seen := make(map[int64]bool, len(first)+len(second))
	merged := make([]occurrenceRecord, 0, len(first)+len(second))
	dropped := 0

	for _, rec := range first {
		if seen[rec.Key] {
			dropped++
			continue
		}
		seen[rec.Key] = true
		merged = append(merged, rec)
	}
	for _, rec := range second {
		if seen[rec.Key] {
			dropped++
			continue
		}
		seen[rec.Key] = true
		merged = append(merged, rec)
	}
	return merged, dropped
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// GBIF API response types.

type searchResponse struct {
	Count        int                `json:"count"`
	EndOfRecords bool               `json:"endOfRecords"`
	Results      []occurrenceRecord `json:"results"`
}

type occurrenceRecord struct {
	Key              int64   `json:"key"`
	Species          string  `json:"species"`
	ScientificName   string  `json:"scientificName"`
	VernacularName   string  `json:"vernacularName"`
	Kingdom          string  `json:"kingdom"`
	Phylum           string  `json:"phylum"`
	Class            string  `json:"class"`
	Order            string  `json:"order"`
	Family           string  `json:"family"`
	Genus            string  `json:"genus"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	Day              int     `json:"day"`
	EventDate        string  `json:"eventDate"`
	DecimalLatitude  float64 `json:"decimalLatitude"`
	DecimalLongitude float64 `json:"decimalLongitude"`
	Locality         string  `json:"locality"`
	County           string  `json:"county"`
	StateProvince    string  `json:"stateProvince"`
	RecordedBy       string  `json:"recordedBy"`
	InstitutionCode  string  `json:"institutionCode"`
	CollectionCode   string  `json:"collectionCode"`
	CatalogNumber    string  `json:"catalogNumber"`
	BasisOfRecord    string  `json:"basisOfRecord"`
	DatasetName      string  `json:"datasetName"`
	DatasetKey       string  `json:"datasetKey"`
	OccurrenceID     string  `json:"occurrenceID"`
}

func (r occurrenceRecord) toDomain() domain.Occurrence {
	return domain.Occurrence{
		SourceKey:       r.Key,
		Species:         r.Species,
		ScientificName:  r.ScientificName,
		VernacularName:  r.VernacularName,
		Kingdom:         r.Kingdom,
		Phylum:          r.Phylum,
		Class:           r.Class,
		Order:           r.Order,
		Family:          r.Family,
		Genus:           r.Genus,
		Year:            r.Year,
		Month:           r.Month,
		Day:             r.Day,
		EventDate:       r.EventDate,
		Latitude:        r.DecimalLatitude,
		Longitude:       r.DecimalLongitude,
		Locality:        r.Locality,
		County:          r.County,
		StateProvince:   r.StateProvince,
		RecordedBy:      r.RecordedBy,
		InstitutionCode: r.InstitutionCode,
		CollectionCode:  r.CollectionCode,
		CatalogNumber:   r.CatalogNumber,
		BasisOfRecord:   r.BasisOfRecord,
		DatasetName:     r.DatasetName,
		DatasetKey:      r.DatasetKey,
		OccurrenceID:    r.OccurrenceID,
		SourceURL:       fmt.Sprintf("https://www.gbif.org/occurrence/%d", r.Key),
	}
}
