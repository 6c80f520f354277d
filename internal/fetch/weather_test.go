package fetch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/openmeteo"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

func fp(v float64) *float64 { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(startYear, endYear int) *config.Config {
	return &config.Config{
		LocationName:  "Black Mountain, NC",
		Latitude:      35.5951,
		Longitude:     -82.5515,
		County:        "Buncombe",
		StateProvince: "North Carolina",
		StartYear:     startYear,
		EndYear:       endYear,
		BBox:          config.BoundingBox{LatMin: 35.0, LatMax: 36.0, LonMin: -83.0, LonMax: -82.0},
	}
}

type fakeArchiveFetcher struct {
	archive   openmeteo.Archive
	err       error
	gotStart  int
	gotEnd    int
	callCount int
}

func (f *fakeArchiveFetcher) FetchDailyArchive(_ context.Context, _, _ float64, startYear, endYear int) (openmeteo.Archive, error) {
	f.callCount++
	f.gotStart = startYear
	f.gotEnd = endYear
	return f.archive, f.err
}

func TestMonthlyFromDaily(t *testing.T) {
	daily := openmeteo.Daily{
		Time:             []string{"1940-01-01", "1940-01-02", "1940-02-01", "1940-01-03"},
		TemperatureMax:   []*float64{fp(5.0), fp(6.5), fp(10.0), nil},
		TemperatureMin:   []*float64{fp(-2.0), fp(-1.0), fp(1.0), fp(0.0)},
		PrecipitationSum: []*float64{fp(1.25), fp(0.0), fp(3.3), nil},
	}

	years, err := monthlyFromDaily(daily)
	require.NoError(t, err)
	require.Contains(t, years, 1940)

	wy := years[1940]
	require.Len(t, wy.Monthly, 2)

	jan := wy.Monthly[0]
	assert.Equal(t, 1, jan.Month)
	require.NotNil(t, jan.TempMaxAvg)
	assert.InDelta(t, 5.8, *jan.TempMaxAvg, 0.001)
	require.NotNil(t, jan.TempMinAvg)
	assert.InDelta(t, -1.0, *jan.TempMinAvg, 0.001)
	require.NotNil(t, jan.PrecipMM)
	assert.InDelta(t, 1.3, *jan.PrecipMM, 0.001)
	// Only days with a max temperature count as recorded.
	assert.Equal(t, 2, jan.DaysRecorded)

	feb := wy.Monthly[1]
	assert.Equal(t, 2, feb.Month)
	require.NotNil(t, feb.TempMaxAvg)
	assert.InDelta(t, 10.0, *feb.TempMaxAvg, 0.001)

	require.NotNil(t, wy.AnnualAvgTempMax)
	assert.InDelta(t, 7.9, *wy.AnnualAvgTempMax, 0.001)
	require.NotNil(t, wy.AnnualAvgTemp)
	require.NotNil(t, wy.TotalPrecipMM)
	assert.InDelta(t, 4.6, *wy.TotalPrecipMM, 0.001)
	assert.False(t, wy.Estimated)
	assert.Equal(t, "Open-Meteo Historical API", wy.Source)
}

func TestMonthlyFromDaily_BadDate(t *testing.T) {
	_, err := monthlyFromDaily(openmeteo.Daily{Time: []string{"not-a-date"}})
	require.Error(t, err)
}

func TestEstimateEarlyYears(t *testing.T) {
	observed := map[int]domain.WeatherYear{
		1940: {Monthly: []domain.MonthlyWeather{
			{Month: 1, TempMaxAvg: fp(4.0), TempMinAvg: fp(-3.0), PrecipMM: fp(100.0)},
			{Month: 7, TempMaxAvg: fp(28.0), TempMinAvg: fp(16.0), PrecipMM: fp(120.0)},
		}},
		1942: {Monthly: []domain.MonthlyWeather{
			{Month: 1, TempMaxAvg: fp(6.0), TempMinAvg: fp(-1.0), PrecipMM: fp(80.0)},
		}},
		// Outside the reference decade, must be ignored.
		1955: {Monthly: []domain.MonthlyWeather{
			{Month: 1, TempMaxAvg: fp(50.0)},
		}},
	}

	estimates := estimateEarlyYears(observed, 1933, 1940)
	require.Len(t, estimates, 7)

	for year := 1933; year <= 1939; year++ {
		wy, ok := estimates[year]
		require.True(t, ok, "missing estimate for %d", year)
		assert.True(t, wy.Estimated)
		assert.Equal(t, "Estimated from 1940-1949 regional averages", wy.Source)
		require.Len(t, wy.Monthly, 12)

		jan := wy.Monthly[0]
		assert.True(t, jan.Estimated)
		require.NotNil(t, jan.TempMaxAvg)
		assert.InDelta(t, 5.0, *jan.TempMaxAvg, 0.001)
		assert.Zero(t, jan.DaysRecorded)

		// Months with no reference data stay null.
		assert.Nil(t, wy.Monthly[2].TempMaxAvg)
	}
}

func TestEstimateEarlyYears_NoEarlyYears(t *testing.T) {
	assert.Nil(t, estimateEarlyYears(map[int]domain.WeatherYear{}, 1940, 1940))
}

func TestWeatherStage_Run(t *testing.T) {
	fetcher := &fakeArchiveFetcher{
		archive: openmeteo.Archive{Daily: openmeteo.Daily{
			Time:             []string{"1940-06-01", "1941-06-01"},
			TemperatureMax:   []*float64{fp(25.0), fp(26.0)},
			TemperatureMin:   []*float64{fp(12.0), fp(13.0)},
			PrecipitationSum: []*float64{fp(2.0), fp(4.0)},
		}},
	}
	cfg := testConfig(1938, 1941)
	store := artifact.NewStore(t.TempDir())

	stage := NewWeatherStage(cfg, fetcher, store, testLogger(), observability.NewMetricsForTesting(), "run-1")
	require.NoError(t, stage.Run(context.Background()))

	// Fetch starts at the archive floor, not the configured start year.
	assert.Equal(t, 1940, fetcher.gotStart)
	assert.Equal(t, 1941, fetcher.gotEnd)

	art, ok, err := artifact.Load[domain.WeatherArtifact](store, artifact.WeatherName(1938, 1941))
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, art.Years[1938].Estimated)
	assert.True(t, art.Years[1939].Estimated)
	assert.False(t, art.Years[1940].Estimated)
	assert.False(t, art.Years[1941].Estimated)
	assert.Equal(t, "run-1", art.Metadata.RunID)
}

func TestWeatherStage_FetchError(t *testing.T) {
	fetcher := &fakeArchiveFetcher{err: assert.AnError}
	cfg := testConfig(1940, 1941)
	store := artifact.NewStore(t.TempDir())

	stage := NewWeatherStage(cfg, fetcher, store, testLogger(), observability.NewMetricsForTesting(), "run-1")
	require.Error(t, stage.Run(context.Background()))
	assert.False(t, store.Exists(artifact.WeatherName(1940, 1941)))
}
