package fetch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

type fakePackageLister struct {
	ids []string
	err error
}

func (f *fakePackageLister) ListPackages(_ context.Context, _ string) ([]string, error) {
	return f.ids, f.err
}

func TestForestCompositionForYear(t *testing.T) {
	tests := []struct {
		year        int
		chestnutPct float64
		oaksPct     float64
		notes       string
	}{
		{1933, 25, 35, "Active chestnut decline"},
		{1935, 25, 35, "Active chestnut decline"},
		{1936, 10, 42.5, "Active chestnut decline"},
		{1940, 10, 42.5, "Active chestnut decline"},
		{1943, 3, 46, "Active chestnut decline"},
		{1946, 1, 47, "Post-chestnut forest stabilizing"},
		{1957, 1, 47, "Post-chestnut forest stabilizing"},
	}

	for _, tt := range tests {
		fc := forestCompositionForYear(tt.year)
		assert.Equal(t, tt.chestnutPct, fc.AmericanChestnutPercent, "year %d", tt.year)
		assert.InDelta(t, tt.oaksPct, fc.OaksPercent, 0.001, "year %d", tt.year)
		assert.Equal(t, tt.notes, fc.Notes, "year %d", tt.year)
		assert.Equal(t, 8.0, fc.HickoriesPercent)
		assert.Equal(t, 10.0, fc.HemlockPercent)
	}
}

func TestForestCompositionDeclineIsMonotonic(t *testing.T) {
	prev := forestCompositionForYear(1933).AmericanChestnutPercent
	for year := 1934; year <= 1957; year++ {
		cur := forestCompositionForYear(year).AmericanChestnutPercent
		assert.LessOrEqual(t, cur, prev, "chestnut share rose in %d", year)
		prev = cur
	}
}

func TestCoweetaStage_Run(t *testing.T) {
	var ids []string
	for i := 0; i < maxDatasetList+10; i++ {
		ids = append(ids, fmt.Sprintf("%d", 1000+i))
	}
	cfg := testConfig(1933, 1957)
	store := artifact.NewStore(t.TempDir())

	stage := NewCoweetaStage(cfg, &fakePackageLister{ids: ids}, store, testLogger(), observability.NewMetricsForTesting(), "run-5")
	require.NoError(t, stage.Run(context.Background()))

	art, ok, err := artifact.Load[domain.CoweetaArtifact](store, artifact.CoweetaFile)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 1934, art.Summary.Established)
	assert.Equal(t, 97, art.Summary.DistanceFromSiteKM)
	assert.Equal(t, maxDatasetList, art.Summary.AvailableDatasets)
	assert.Len(t, art.DatasetList, maxDatasetList)

	assert.Len(t, art.ForestComposition.PreBlight, 8)
	assert.Equal(t, "Castanea dentata", art.ForestComposition.PreBlight[0].Species)
	assert.Contains(t, art.BlightTimeline.Milestones, 1925)
	assert.Contains(t, art.BlightTimeline.Milestones, 1950)

	require.Len(t, art.WildlifeRecords, 4)
	assert.NotEmpty(t, art.WildlifeRecords["mammals"])
	assert.NotEmpty(t, art.WildlifeRecords["birds"])

	assert.Len(t, art.EraBaseline.ForestCompositionByYear, 25)
	assert.Equal(t, "Southern Blue Ridge Mountains", art.EraBaseline.Ecoregion)
	require.Contains(t, art.EraBaseline.SeasonalPatterns, "spring")
	assert.Equal(t, []int{3, 4, 5}, art.EraBaseline.SeasonalPatterns["spring"].Months)
}

func TestCoweetaStage_ListFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(1933, 1957)
	store := artifact.NewStore(t.TempDir())

	stage := NewCoweetaStage(cfg, &fakePackageLister{err: assert.AnError}, store, testLogger(), observability.NewMetricsForTesting(), "")
	require.NoError(t, stage.Run(context.Background()))

	art, ok, err := artifact.Load[domain.CoweetaArtifact](store, artifact.CoweetaFile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, art.Summary.AvailableDatasets)
	assert.Empty(t, art.DatasetList)
}
