package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
)

func TestStore_WriteLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	want := domain.PesticideArtifact{
		Metadata: domain.Metadata{
			Source:   "EPA Historical Documents",
			Location: "Black Mountain, NC",
			Period:   "1933-1957",
		},
		YearlyData: map[int]domain.PesticideYearData{
			1946: {
				Year:                   1946,
				DDTAvailable:           true,
				DDTAgriculturalUse:     true,
				EstimatedRegionalUsage: "moderate",
				CommonPesticides:       []string{"DDT", "lead arsenate"},
			},
		},
	}

	n, err := store.Write("pesticides_1933_1957.json", want)
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))

	got, ok, err := Load[domain.PesticideArtifact](store, "pesticides_1933_1957.json")
	require.NoError(t, err)
	require.True(t, ok)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("artifact changed across write/load (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingArtifactIsNotAnError(t *testing.T) {
	store := NewStore(t.TempDir())

	got, ok, err := Load[domain.WeatherArtifact](store, "weather_1933_1957.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got.Years)
}

func TestLoad_CorruptArtifactIsAnError(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "weather_1933_1957.json"), []byte("{not json"), 0o644))

	_, ok, err := Load[domain.WeatherArtifact](store, "weather_1933_1957.json")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, err := store.Write("seasonal_calendar.json", map[string]int{"a": 1})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seasonal_calendar.json", entries[0].Name())
}

func TestStore_List(t *testing.T) {
	store := NewStore(t.TempDir())

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Write("weather_1933_1957.json", struct{}{})
	require.NoError(t, err)
	_, err = store.Write("chestnut_blight_1933_1957.json", struct{}{})
	require.NoError(t, err)

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"chestnut_blight_1933_1957.json", "weather_1933_1957.json"}, names)

	assert.True(t, store.Exists("weather_1933_1957.json"))
	assert.False(t, store.Exists("bmc_farm_1933_1957.json"))
}

func TestNames_DeriveFromPeriod(t *testing.T) {
	assert.Equal(t, "weather_1933_1957.json", WeatherName(1933, 1957))
	assert.Equal(t, "biodiversity_1933_1957.json", BiodiversityName(1933, 1957))
	assert.Equal(t, "gbif_historical_1933_1957.json", SpecimensName(1933, 1957))
	assert.Equal(t, "chestnut_blight_1933_1957.json", ChestnutName(1933, 1957))
	assert.Equal(t, "pesticides_1933_1957.json", PesticidesName(1933, 1957))
	assert.Equal(t, "bmc_farm_1933_1957.json", FarmName(1933, 1957))
	assert.Equal(t, "bmc_ecology_1940_1950.json", MergedName(1940, 1950))
}
