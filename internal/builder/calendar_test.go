package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func TestFlightCalendar(t *testing.T) {
	cal := flightCalendar([]domain.SpeciesTraits{
		{ScientificName: "Papilio glaucus", CommonName: "Eastern Tiger Swallowtail", Family: "Papilionidae", Abundance: "common", FlightMonths: []int{4, 5, 6}},
		{ScientificName: "Actias luna", CommonName: "Luna Moth", Family: "Saturniidae", FlightMonths: []int{4, 5, 13}},
	})

	require.Len(t, cal, 12)
	require.Len(t, cal[4], 2)
	assert.Equal(t, "common", cal[4][0].Abundance)
	// Missing abundance falls back to unknown, out-of-range months are dropped.
	assert.Equal(t, "unknown", cal[4][1].Abundance)
	assert.Len(t, cal[6], 1)
	assert.Empty(t, cal[1])
}

func TestBloomCalendar(t *testing.T) {
	cal := bloomCalendar([]domain.SpeciesTraits{
		{ScientificName: "Trillium grandiflorum", CommonName: "White Trillium", Family: "Melanthiaceae", Type: "wildflower", Habitat: "rich cove forest", BloomMonths: []int{4, 5}},
	})

	require.Len(t, cal, 12)
	require.Len(t, cal[4], 1)
	assert.Equal(t, "wildflower", cal[4][0].Type)
	assert.Equal(t, "rich cove forest", cal[4][0].Habitat)
	assert.Empty(t, cal[4][0].Abundance)
	assert.Empty(t, cal[6])
}

func TestBirdCalendarSeasonality(t *testing.T) {
	cal := birdCalendar()
	require.Len(t, cal, 12)

	names := func(m int) []string {
		var out []string
		for _, s := range cal[m] {
			out = append(out, s.CommonName)
		}
		return out
	}

	// Residents appear every month, juncos winter only, tanagers summer only.
	for m := 1; m <= 12; m++ {
		assert.Contains(t, names(m), "Northern Cardinal", "month %d", m)
	}
	assert.Contains(t, names(1), "Dark-eyed Junco")
	assert.NotContains(t, names(7), "Dark-eyed Junco")
	assert.Contains(t, names(6), "Scarlet Tanager")
	assert.NotContains(t, names(12), "Scarlet Tanager")
	assert.Greater(t, len(cal[5]), len(cal[1]), "spring should carry more birds than midwinter")
}

func TestAmphibianCalendarSeasonality(t *testing.T) {
	cal := amphibianCalendar()
	require.Len(t, cal, 12)

	names := func(m int) []string {
		var out []string
		for _, s := range cal[m] {
			out = append(out, s.CommonName)
		}
		return out
	}

	assert.Contains(t, names(2), "Wood Frog")
	assert.NotContains(t, names(7), "Wood Frog")
	for m := 1; m <= 12; m++ {
		assert.Contains(t, names(m), "Jordan's Salamander", "month %d", m)
	}
}

func TestCalendarStage_Run_WithoutTraits(t *testing.T) {
	cfg := testConfig(1933, 1957)
	store := artifact.NewStore(t.TempDir())

	stage := NewCalendarStage(cfg, store, testLogger(), observability.NewMetricsForTesting(), "run-3")
	require.NoError(t, stage.Run(context.Background()))

	art, ok, err := artifact.Load[domain.SeasonalCalendarArtifact](store, artifact.SeasonalCalendarFile)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, art.Summary, 12)
	require.Len(t, art.DetailedCalendars, 12)
	for i, name := range monthNames {
		require.Contains(t, art.Summary, name)
		require.Contains(t, art.DetailedCalendars, name)
		assert.Equal(t, i+1, art.Summary[name].MonthNumber)
		assert.Equal(t, i+1, art.DetailedCalendars[name].MonthNumber)
		assert.NotEmpty(t, art.Summary[name].EcologicalEvents)
	}

	// No traits artifact means no lepidoptera or plant entries.
	may := art.Summary["May"]
	assert.Zero(t, may.ButterfliesActive)
	assert.Zero(t, may.MothsActive)
	assert.Zero(t, may.PlantsBlooming)
	assert.Positive(t, may.BirdsPresent)
	assert.Positive(t, may.AmphibiansActive)

	assert.Equal(t, "Winter", art.DetailedCalendars["January"].Season)
	assert.Equal(t, "Spring", art.DetailedCalendars["May"].Season)
	assert.Equal(t, "Fall", art.DetailedCalendars["October"].Season)
}

func TestCalendarStage_Run_WithTraits(t *testing.T) {
	cfg := testConfig(1933, 1957)
	store := artifact.NewStore(t.TempDir())

	traits := domain.SpeciesTraitsArtifact{
		Butterflies: domain.SpeciesTraitsGroup{Species: []domain.SpeciesTraits{
			{ScientificName: "Papilio glaucus", CommonName: "Eastern Tiger Swallowtail", FlightMonths: []int{4, 5, 6, 7, 8}},
		}},
		Moths: domain.SpeciesTraitsGroup{Species: []domain.SpeciesTraits{
			{ScientificName: "Actias luna", CommonName: "Luna Moth", FlightMonths: []int{4, 5, 6}},
		}},
		Plants: domain.SpeciesTraitsGroup{Species: []domain.SpeciesTraits{
			{ScientificName: "Trillium grandiflorum", CommonName: "White Trillium", BloomMonths: []int{4, 5}},
		}},
	}
	_, err := store.Write(artifact.SpeciesTraitsFile, traits)
	require.NoError(t, err)

	stage := NewCalendarStage(cfg, store, testLogger(), observability.NewMetricsForTesting(), "run-4")
	require.NoError(t, stage.Run(context.Background()))

	art, ok, err := artifact.Load[domain.SeasonalCalendarArtifact](store, artifact.SeasonalCalendarFile)
	require.NoError(t, err)
	require.True(t, ok)

	may := art.Summary["May"]
	assert.Equal(t, 1, may.ButterfliesActive)
	assert.Equal(t, 1, may.MothsActive)
	assert.Equal(t, 1, may.PlantsBlooming)

	january := art.Summary["January"]
	assert.Zero(t, january.ButterfliesActive)

	detail := art.DetailedCalendars["May"]
	require.Len(t, detail.Butterflies, 1)
	assert.Equal(t, "Papilio glaucus", detail.Butterflies[0].ScientificName)
	assert.Equal(t, "unknown", detail.Butterflies[0].Abundance)
}
