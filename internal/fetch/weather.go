package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/openmeteo"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

const (
	observedWeatherSource  = "Open-Meteo Historical API"
	estimatedWeatherSource = "Estimated from 1940-1949 regional averages"
)

// ArchiveFetcher retrieves a daily weather series for a location and year
// range.
type ArchiveFetcher interface {
	FetchDailyArchive(ctx context.Context, lat, lon float64, startYear, endYear int) (openmeteo.Archive, error)
}

// WeatherStage fetches daily weather from the archive, aggregates it to
// monthly and annual summaries, and synthesizes the pre-archive years from
// decade averages so every year in the period is covered.
type WeatherStage struct {
	cfg     *config.Config
	source  ArchiveFetcher
	store   *artifact.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	runID   string
}

// NewWeatherStage wires the weather collection stage.
func NewWeatherStage(cfg *config.Config, source ArchiveFetcher, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *WeatherStage {
	return &WeatherStage{
		cfg:     cfg,
		source:  source,
		store:   store,
		logger:  logger,
		metrics: metrics,
		runID:   runID,
	}
}

func (s *WeatherStage) Name() string { return "weather" }

// Run fetches and processes the weather artifact for the configured period.
func (s *WeatherStage) Run(ctx context.Context) error {
	fetchStart := s.cfg.StartYear
	if fetchStart < openmeteo.ArchiveStartYear {
		fetchStart = openmeteo.ArchiveStartYear
	}
	if fetchStart > s.cfg.EndYear {
		return fmt.Errorf("no archive data for %s: archive starts %d", s.cfg.Period(), openmeteo.ArchiveStartYear)
	}

	archive, err := s.source.FetchDailyArchive(ctx, s.cfg.Latitude, s.cfg.Longitude, fetchStart, s.cfg.EndYear)
	if err != nil {
		return fmt.Errorf("fetch daily archive: %w", err)
	}

	observed, err := monthlyFromDaily(archive.Daily)
	if err != nil {
		return fmt.Errorf("aggregate daily archive: %w", err)
	}

	years := make(map[int]domain.WeatherYear, s.cfg.EndYear-s.cfg.StartYear+1)
	for y, wy := range observed {
		years[y] = wy
	}
	for y, wy := range estimateEarlyYears(observed, s.cfg.StartYear, openmeteo.ArchiveStartYear) {
		years[y] = wy
	}

	art := domain.WeatherArtifact{
		Metadata: domain.NewMetadata(
			observedWeatherSource,
			s.cfg.LocationName,
			s.cfg.Period(),
			s.runID,
			fmt.Sprintf("Archive data begins %d; earlier years estimated from 1940-1949 averages", openmeteo.ArchiveStartYear),
		),
		Years: years,
	}
	return writeArtifact(s.store, s.metrics, s.logger, artifact.WeatherName(s.cfg.StartYear, s.cfg.EndYear), art)
}

// monthlyFromDaily buckets the daily series by calendar month and computes
// per-month averages and the precipitation total, then annual aggregates.
// Days with a null value are skipped, so a month's averages only reflect
// observed days.
func monthlyFromDaily(daily openmeteo.Daily) (map[int]domain.WeatherYear, error) {
	type bucket struct {
		tempMax []float64
		tempMin []float64
		precip  []float64
	}
	type yearMonth struct {
		year  int
		month int
	}

	buckets := make(map[yearMonth]*bucket)
	for i, ds := range daily.Time {
		date, err := openmeteo.Date(ds)
		if err != nil {
			return nil, fmt.Errorf("daily entry %d: %w", i, err)
		}
		key := yearMonth{date.Year(), int(date.Month())}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		if i < len(daily.TemperatureMax) && daily.TemperatureMax[i] != nil {
			b.tempMax = append(b.tempMax, *daily.TemperatureMax[i])
		}
		if i < len(daily.TemperatureMin) && daily.TemperatureMin[i] != nil {
			b.tempMin = append(b.tempMin, *daily.TemperatureMin[i])
		}
		if i < len(daily.PrecipitationSum) && daily.PrecipitationSum[i] != nil {
			b.precip = append(b.precip, *daily.PrecipitationSum[i])
		}
	}

	years := make(map[int]domain.WeatherYear)
	for key, b := range buckets {
		wy, ok := years[key.year]
		if !ok {
			wy = domain.WeatherYear{Source: observedWeatherSource}
		}
		wy.Monthly = append(wy.Monthly, domain.MonthlyWeather{
			Month:        key.month,
			TempMaxAvg:   roundedMean(b.tempMax),
			TempMinAvg:   roundedMean(b.tempMin),
			PrecipMM:     roundedSum(b.precip),
			DaysRecorded: len(b.tempMax),
		})
		years[key.year] = wy
	}

	for y, wy := range years {
		sortMonthly(wy.Monthly)
		annualize(&wy)
		years[y] = wy
	}
	return years, nil
}

// estimateEarlyYears synthesizes the years before the archive begins from
// the monthly averages of the first observed decade. Every estimated month
// and year is marked so downstream consumers can tell reconstruction from
// observation.
func estimateEarlyYears(observed map[int]domain.WeatherYear, startYear, archiveStart int) map[int]domain.WeatherYear {
	if startYear >= archiveStart {
		return nil
	}

	refMax := make(map[int][]float64)
	refMin := make(map[int][]float64)
	refPrecip := make(map[int][]float64)
	for y := archiveStart; y < archiveStart+10; y++ {
		wy, ok := observed[y]
		if !ok {
			continue
		}
		for _, m := range wy.Monthly {
			if m.TempMaxAvg != nil {
				refMax[m.Month] = append(refMax[m.Month], *m.TempMaxAvg)
			}
			if m.TempMinAvg != nil {
				refMin[m.Month] = append(refMin[m.Month], *m.TempMinAvg)
			}
			if m.PrecipMM != nil {
				refPrecip[m.Month] = append(refPrecip[m.Month], *m.PrecipMM)
			}
		}
	}
	if len(refMax) == 0 && len(refMin) == 0 && len(refPrecip) == 0 {
		return nil
	}

	estimates := make(map[int]domain.WeatherYear, archiveStart-startYear)
	for y := startYear; y < archiveStart; y++ {
		wy := domain.WeatherYear{
			Source:    estimatedWeatherSource,
			Estimated: true,
		}
		for m := 1; m <= 12; m++ {
			wy.Monthly = append(wy.Monthly, domain.MonthlyWeather{
				Month:      m,
				TempMaxAvg: roundedMean(refMax[m]),
				TempMinAvg: roundedMean(refMin[m]),
				PrecipMM:   roundedMean(refPrecip[m]),
				Estimated:  true,
			})
		}
		annualize(&wy)
		estimates[y] = wy
	}
	return estimates
}

// annualize fills a year's annual aggregates from its monthly summaries.
func annualize(wy *domain.WeatherYear) {
	var tempMax, tempMin, precip []float64
	for _, m := range wy.Monthly {
		if m.TempMaxAvg != nil {
			tempMax = append(tempMax, *m.TempMaxAvg)
		}
		if m.TempMinAvg != nil {
			tempMin = append(tempMin, *m.TempMinAvg)
		}
		if m.PrecipMM != nil {
			precip = append(precip, *m.PrecipMM)
		}
	}
	wy.AnnualAvgTempMax = roundedMean(tempMax)
	wy.AnnualAvgTempMin = roundedMean(tempMin)
	if wy.AnnualAvgTempMax != nil && wy.AnnualAvgTempMin != nil {
		avg := round1((*wy.AnnualAvgTempMax + *wy.AnnualAvgTempMin) / 2)
		wy.AnnualAvgTemp = &avg
	}
	wy.TotalPrecipMM = roundedSum(precip)
}

func sortMonthly(months []domain.MonthlyWeather) {
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundedMean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	m := round1(sum / float64(len(vals)))
	return &m
}

func roundedSum(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	s := round1(sum)
	return &s
}
