package fetch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/inaturalist"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

type fakeSpeciesCounter struct {
	placeID   int
	byTaxon   map[int][]inaturalist.Species
	errFor    map[int]error
	monthly   map[int]map[int]int
	gotCounty string
}

func (f *fakeSpeciesCounter) FindPlaceID(_ context.Context, county, _ string, _, _ float64) int {
	f.gotCounty = county
	return f.placeID
}

func (f *fakeSpeciesCounter) FetchSpeciesCounts(_ context.Context, _, taxonID int) ([]inaturalist.Species, error) {
	return f.byTaxon[taxonID], f.errFor[taxonID]
}

func (f *fakeSpeciesCounter) FetchMonthlyCounts(_ context.Context, _, taxonID int) (map[int]int, error) {
	return f.monthly[taxonID], nil
}

func TestGroupBaselineSpecies(t *testing.T) {
	lepidoptera := []inaturalist.Species{
		{ScientificName: "Actias luna", CommonName: "Luna Moth", Observations: 50},
		{ScientificName: "Papilio glaucus", CommonName: "Eastern Tiger Swallowtail", Observations: 40},
		{ScientificName: "Hyalophora cecropia", CommonName: "Cecropia Moth", Observations: 30},
	}
	butterflies := []inaturalist.Species{
		{ScientificName: "Papilio glaucus", CommonName: "Eastern Tiger Swallowtail", Observations: 40, SourceURL: "https://www.inaturalist.org/taxa/60551"},
	}

	var plants []inaturalist.Species
	for i := 0; i < plantCap+25; i++ {
		plants = append(plants, inaturalist.Species{ScientificName: fmt.Sprintf("Plant %d", i)})
	}

	groups := groupBaselineSpecies(map[string][]inaturalist.Species{
		"Lepidoptera": lepidoptera,
		"Plantae":     plants,
	}, butterflies)

	// Moths are the Lepidoptera whose common name says moth.
	require.Len(t, groups["moths"], 2)
	assert.Equal(t, "Actias luna", groups["moths"][0].ScientificName)
	assert.Equal(t, "Hyalophora cecropia", groups["moths"][1].ScientificName)
	assert.Empty(t, groups["moths"][0].SourceURL)

	require.Len(t, groups["butterflies"], 1)
	assert.Equal(t, "https://www.inaturalist.org/taxa/60551", groups["butterflies"][0].SourceURL)

	assert.Len(t, groups["plants"], plantCap)
	assert.Empty(t, groups["insects_other"])
}

func TestBaselineStage_Run(t *testing.T) {
	counter := &fakeSpeciesCounter{
		placeID: 1267,
		byTaxon: map[int][]inaturalist.Species{
			47157: {
				{TaxonID: 1, ScientificName: "Actias luna", CommonName: "Luna Moth", Observations: 10},
			},
			47126: {
				{TaxonID: 2, ScientificName: "Kalmia latifolia", CommonName: "Mountain Laurel", Observations: 7},
				{TaxonID: 3, ScientificName: "Cornus florida", CommonName: "Flowering Dogwood", Observations: 12},
			},
			butterflyTaxonID: {
				{TaxonID: 4, ScientificName: "Papilio glaucus", Observations: 40, SourceURL: "https://www.inaturalist.org/taxa/60551"},
			},
		},
		errFor: map[int]error{
			// Insects fail mid-fetch; the stage keeps what it has.
			47158: assert.AnError,
		},
		monthly: map[int]map[int]int{
			47157: {1: 0, 6: 42, 7: 55},
		},
	}
	cfg := testConfig(1933, 1957)
	store := artifact.NewStore(t.TempDir())

	stage := NewBaselineStage(cfg, counter, store, testLogger(), observability.NewMetricsForTesting(), "run-4")
	require.NoError(t, stage.Run(context.Background()))

	assert.Equal(t, "Buncombe", counter.gotCounty)

	art, ok, err := artifact.Load[domain.BaselineArtifact](store, artifact.BaselineFile)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 3, art.Summary.TotalSpecies)
	assert.Equal(t, 1, art.Summary.SpeciesByTaxon["Lepidoptera"])
	assert.Equal(t, 2, art.Summary.SpeciesByTaxon["Plantae"])
	assert.Equal(t, 0, art.Summary.SpeciesByTaxon["Insecta"])

	// Plants sorted by observations descending.
	require.Len(t, art.BaselineSpecies["plants"], 2)
	assert.Equal(t, "Cornus florida", art.BaselineSpecies["plants"][0].ScientificName)

	require.Len(t, art.BaselineSpecies["moths"], 1)
	require.Len(t, art.BaselineSpecies["butterflies"], 1)
	assert.Equal(t, "https://www.inaturalist.org/taxa/60551", art.BaselineSpecies["butterflies"][0].SourceURL)

	assert.Equal(t, 55, art.SeasonalPatterns["Lepidoptera"][7])
	assert.Equal(t, "https://api.inaturalist.org/v1", art.Metadata.API)
}
