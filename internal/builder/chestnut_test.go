package builder

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

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
	}
}

func TestChestnutStatusForYear(t *testing.T) {
	tests := []struct {
		year        int
		status      string
		survivalPct int
		rootSprouts string
		salvage     bool
	}{
		{1933, "dying", 40, "emerging", false},
		{1934, "mass_mortality", 15, "emerging", false},
		{1935, "mass_mortality", 15, "present", true},
		{1938, "mass_mortality", 15, "present", true},
		{1940, "functionally_extinct", 2, "present", true},
		{1945, "functionally_extinct", 2, "present", true},
		{1946, "extinct_as_canopy", 0, "present", false},
		{1957, "extinct_as_canopy", 0, "present", false},
	}

	for _, tt := range tests {
		s := ChestnutStatusForYear(tt.year)
		assert.Equal(t, tt.year, s.Year)
		assert.True(t, s.BlightPresent, "year %d", tt.year)
		assert.Equal(t, tt.status, s.MatureTreeStatus, "year %d", tt.year)
		assert.Equal(t, tt.survivalPct, s.EstimatedSurvivalPercent, "year %d", tt.year)
		assert.Equal(t, tt.rootSprouts, s.RootSprouts, "year %d", tt.year)
		assert.Equal(t, tt.salvage, s.SalvageLogging, "year %d", tt.year)
	}
}

func TestChestnutSurvivalIsMonotonic(t *testing.T) {
	prev := ChestnutStatusForYear(1933).EstimatedSurvivalPercent
	for year := 1934; year <= 1957; year++ {
		cur := ChestnutStatusForYear(year).EstimatedSurvivalPercent
		assert.LessOrEqual(t, cur, prev, "survival rose in %d", year)
		prev = cur
	}
}

func TestChestnutStage_Run(t *testing.T) {
	cfg := testConfig(1933, 1957)
	store := artifact.NewStore(t.TempDir())

	stage := NewChestnutStage(cfg, store, testLogger(), observability.NewMetricsForTesting(), "run-1")
	require.NoError(t, stage.Run(context.Background()))

	art, ok, err := artifact.Load[domain.ChestnutArtifact](store, artifact.ChestnutName(1933, 1957))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Castanea dentata", art.SpeciesInfo.Species)
	assert.Equal(t, "run-1", art.Metadata.RunID)
	assert.Len(t, art.MajorEvents, 13)
	assert.Equal(t, 1904, art.MajorEvents[0].Year)
	assert.Len(t, art.YearlyStatus, 25)
	require.Contains(t, art.YearlyStatus, 1933)
	assert.Equal(t, "dying", art.YearlyStatus[1933].MatureTreeStatus)
	assert.NotEmpty(t, art.PreBlightEcology.EconomicImportance)
	assert.NotEmpty(t, art.EcologicalConsequences.WildlifeImpacts)
}
