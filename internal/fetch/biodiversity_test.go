package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

type fakeBBoxFetcher struct {
	byTaxon map[int][]domain.Occurrence
	errFor  map[int]error
}

func (f *fakeBBoxFetcher) FetchBBoxOccurrences(_ context.Context, taxonKey int, _ config.BoundingBox, _, _ int) ([]domain.Occurrence, error) {
	return f.byTaxon[taxonKey], f.errFor[taxonKey]
}

type capturingPublisher struct {
	batches [][]domain.Occurrence
	err     error
}

func (p *capturingPublisher) PublishBatch(_ context.Context, occurrences []domain.Occurrence, _ time.Time) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, occurrences)
	return nil
}

func TestYearlySpeciesLists(t *testing.T) {
	occurrences := []domain.Occurrence{
		{Year: 1940, Species: "Turdus migratorius", ScientificName: "Turdus migratorius L.", Family: "Turdidae"},
		{Year: 1940, Species: "Turdus migratorius"},
		{Year: 1940, Species: "Cyanocitta cristata", Family: "Corvidae"},
		{Year: 1941, Genus: "Corvus"},
		{Year: 1940},         // no usable name, dropped
		{Species: "No year"}, // no year, dropped
		{Year: 1960, Species: "Out of range"},
	}

	lists := yearlySpeciesLists(occurrences, 1940, 1942)

	// Every year in the range has an entry, even with no records.
	require.Len(t, lists, 3)

	y1940 := lists[1940]
	require.Len(t, y1940.Species, 2)
	assert.Equal(t, "Turdus migratorius", y1940.Species[0].Species)
	assert.Equal(t, 2, y1940.Species[0].Count)
	assert.Equal(t, "Turdus migratorius L.", y1940.Species[0].ScientificName)
	assert.Equal(t, "Cyanocitta cristata", y1940.Species[1].Species)
	assert.Equal(t, 2, y1940.TotalSpecies)
	assert.Equal(t, 3, y1940.TotalObservations)

	// Genus-only records fall back to "<genus> sp.".
	y1941 := lists[1941]
	require.Len(t, y1941.Species, 1)
	assert.Equal(t, "Corvus sp.", y1941.Species[0].Species)
	assert.Equal(t, "Corvus sp.", y1941.Species[0].ScientificName)

	y1942 := lists[1942]
	assert.Empty(t, y1942.Species)
	assert.NotNil(t, y1942.Species)
	assert.Zero(t, y1942.TotalObservations)
}

func TestBiodiversityStage_Run(t *testing.T) {
	fetcher := &fakeBBoxFetcher{
		byTaxon: map[int][]domain.Occurrence{
			212: {{SourceKey: 1, Year: 1940, Species: "Turdus migratorius"}},
			359: {{SourceKey: 2, Year: 1945, Species: "Procyon lotor"}},
		},
		errFor: map[int]error{
			// Plants fail mid-fetch; the stage keeps what it has.
			6: assert.AnError,
		},
	}
	publisher := &capturingPublisher{}
	cfg := testConfig(1940, 1945)
	store := artifact.NewStore(t.TempDir())

	stage := NewBiodiversityStage(cfg, fetcher, publisher, store, testLogger(), observability.NewMetricsForTesting(), "run-2")
	require.NoError(t, stage.Run(context.Background()))

	art, ok, err := artifact.Load[domain.BiodiversityArtifact](store, artifact.BiodiversityName(1940, 1945))
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, art.GBIFRecords, 5)
	for _, taxon := range []string{"birds", "mammals", "plants", "fish", "amphibians"} {
		assert.Len(t, art.GBIFRecords[taxon], 6, "taxon %s must cover every year", taxon)
	}
	assert.Equal(t, 1, art.GBIFRecords["birds"][1940].TotalObservations)
	assert.Zero(t, art.GBIFRecords["plants"][1940].TotalObservations)

	require.Len(t, art.KnownSpecies, 5)
	assert.Equal(t, [2]int{1940, 1945}, art.KnownSpecies["birds"].YearRange)
	assert.NotEmpty(t, art.KnownSpecies["plants"].CommonSpecies)

	// Only taxa with records publish, tagged with their group.
	require.Len(t, publisher.batches, 2)
	assert.Equal(t, "birds", publisher.batches[0][0].TaxonGroup)
	assert.Equal(t, "mammals", publisher.batches[1][0].TaxonGroup)
}

func TestBiodiversityStage_NilPublisher(t *testing.T) {
	fetcher := &fakeBBoxFetcher{
		byTaxon: map[int][]domain.Occurrence{
			212: {{SourceKey: 1, Year: 1940, Species: "Turdus migratorius"}},
		},
	}
	cfg := testConfig(1940, 1941)
	store := artifact.NewStore(t.TempDir())

	stage := NewBiodiversityStage(cfg, fetcher, nil, store, testLogger(), observability.NewMetricsForTesting(), "")
	require.NoError(t, stage.Run(context.Background()))
	assert.True(t, store.Exists(artifact.BiodiversityName(1940, 1941)))
}

func TestBiodiversityStage_PublishFailureDoesNotFailStage(t *testing.T) {
	fetcher := &fakeBBoxFetcher{
		byTaxon: map[int][]domain.Occurrence{
			212: {{SourceKey: 1, Year: 1940, Species: "Turdus migratorius"}},
		},
	}
	publisher := &capturingPublisher{err: assert.AnError}
	cfg := testConfig(1940, 1941)
	store := artifact.NewStore(t.TempDir())

	stage := NewBiodiversityStage(cfg, fetcher, publisher, store, testLogger(), observability.NewMetricsForTesting(), "")
	require.NoError(t, stage.Run(context.Background()))
	assert.True(t, store.Exists(artifact.BiodiversityName(1940, 1941)))
}
