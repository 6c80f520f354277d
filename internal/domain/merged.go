package domain

import (
	"encoding/json"
	"time"
)

// MergedMetadata heads the final combined dataset.
type MergedMetadata struct {
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	Coordinates [2]float64 `json:"coordinates"`
	ElevationM  int        `json:"elevation_m"`
	Period      string     `json:"period"`
	Generated   time.Time  `json:"generated"`
	RunID       string     `json:"run_id,omitempty"`
	Sources     []string   `json:"sources"`
	Notes       []string   `json:"notes"`
}

// MajorEvent is one entry in the combined chronological event timeline,
// tagged with the artifact type it came from.
type MajorEvent struct {
	Year        int      `json:"year"`
	Type        string   `json:"type"`
	Event       string   `json:"event"`
	Description string   `json:"description"`
	KeyPeople   []string `json:"key_people,omitempty"`
}

// EcologicalContext describes the region and carries the merged event
// timeline sorted by year.
type EcologicalContext struct {
	Region      string       `json:"region"`
	Ecoregion   string       `json:"ecoregion"`
	ForestType  string       `json:"forest_type"`
	Climate     string       `json:"climate"`
	MajorEvents []MajorEvent `json:"major_events"`
}

// SpeciesEntry is the uniform species shape used in merged yearly flora and
// fauna lists, whether the species came from fetched occurrence data or a
// documented historical record.
type SpeciesEntry struct {
	Species        string `json:"species"`
	ScientificName string `json:"scientific_name,omitempty"`
	VernacularName string `json:"vernacular_name,omitempty"`
	Family         string `json:"family,omitempty"`
	Count          int    `json:"count,omitempty"`
	Status         string `json:"status,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// FromSpeciesCount converts a fetched yearly species record to the merged
// shape.
func FromSpeciesCount(s SpeciesCount) SpeciesEntry {
	return SpeciesEntry{
		Species:        s.Species,
		ScientificName: s.ScientificName,
		VernacularName: s.VernacularName,
		Family:         s.Family,
		Count:          s.Count,
	}
}

// FromKnownSpecies converts a documented historical species to the merged
// shape.
func FromKnownSpecies(s KnownSpecies) SpeciesEntry {
	return SpeciesEntry{
		Species:        s.Species,
		VernacularName: s.VernacularName,
		Status:         s.Status,
		Notes:          s.Notes,
	}
}

// YearFlora holds a year's plant lists.
type YearFlora struct {
	Trees         []SpeciesEntry `json:"trees"`
	NotablePlants []SpeciesEntry `json:"notable_plants"`
}

// YearFauna holds a year's animal lists.
type YearFauna struct {
	Birds      []SpeciesEntry `json:"birds"`
	Mammals    []SpeciesEntry `json:"mammals"`
	Fish       []SpeciesEntry `json:"fish"`
	Amphibians []SpeciesEntry `json:"amphibians"`
}

// YearPesticides is the pesticide slice of a merged year. All fields keep
// their zero defaults when the pesticide artifact is absent.
type YearPesticides struct {
	DDTAvailable           bool     `json:"ddt_available"`
	DDTAgriculturalUse     bool     `json:"ddt_agricultural_use"`
	CommonPesticides       []string `json:"common_pesticides"`
	EstimatedRegionalUsage string   `json:"estimated_regional_usage"`
	Notes                  string   `json:"notes"`
}

// YearEcologicalEvent is one ongoing ecological process noted for a year.
type YearEcologicalEvent struct {
	Type            string `json:"type"`
	Species         string `json:"species"`
	Status          string `json:"status"`
	SurvivalPercent int    `json:"survival_percent"`
	Notes           string `json:"notes"`
}

// MergedYear is the final per-year composite. Every field is present in
// every entry; sources missing for a year leave the documented defaults
// (empty lists, false, null).
type MergedYear struct {
	Year             int                   `json:"year"`
	Weather          *WeatherYear          `json:"weather"`
	Flora            YearFlora             `json:"flora"`
	Fauna            YearFauna             `json:"fauna"`
	Pesticides       YearPesticides        `json:"pesticides"`
	EcologicalEvents []YearEcologicalEvent `json:"ecological_events"`
	Farm             json.RawMessage       `json:"farm"`
}

// FarmReference carries the farm artifact's reference blocks through to the
// merged output unchanged.
type FarmReference struct {
	Livestock        json.RawMessage `json:"livestock,omitempty"`
	Crops            json.RawMessage `json:"crops,omitempty"`
	Buildings        json.RawMessage `json:"buildings,omitempty"`
	Equipment        json.RawMessage `json:"equipment,omitempty"`
	KeyPeople        json.RawMessage `json:"key_people,omitempty"`
	Programs         json.RawMessage `json:"programs,omitempty"`
	OrganicPractices json.RawMessage `json:"organic_practices,omitempty"`
}

// SpeciesReference re-exposes the traits artifact in the merged output.
type SpeciesReference struct {
	Moths        SpeciesTraitsGroup `json:"moths"`
	Butterflies  SpeciesTraitsGroup `json:"butterflies"`
	NativePlants SpeciesTraitsGroup `json:"native_plants"`
}

// CoweetaBaseline re-exposes the long-term research baseline in the merged
// output.
type CoweetaBaseline struct {
	ForestComposition  ForestComposition           `json:"forest_composition"`
	BlightTimeline     BlightTimeline              `json:"chestnut_blight_timeline"`
	HistoricalWildlife map[string][]WildlifeRecord `json:"historical_wildlife"`
	EraBaseline        EraBaseline                 `json:"era_baseline"`
}

// CalendarReference re-exposes the seasonal calendar in the merged output.
type CalendarReference struct {
	Summary           map[string]MonthSummary `json:"summary"`
	DetailedCalendars map[string]MonthDetail  `json:"detailed_calendars"`
}

// BaselineReference re-exposes the modern species baseline in the merged
// output.
type BaselineReference struct {
	Summary          BaselineSummary              `json:"summary"`
	BaselineSpecies  map[string][]BaselineSpecies `json:"baseline_species"`
	SeasonalPatterns map[string]map[int]int       `json:"seasonal_patterns"`
}

// SpecimensReference re-exposes the historical specimens summary in the
// merged output.
type SpecimensReference struct {
	Summary        SpecimensSummary        `json:"summary"`
	SpeciesByTaxon map[string]TaxonSummary `json:"species_by_taxon"`
}

// MergedDataset is the final combined output: one entry per year plus the
// regional context and whatever reference sections had backing artifacts.
type MergedDataset struct {
	Metadata              MergedMetadata      `json:"metadata"`
	EcologicalContext     EcologicalContext   `json:"ecological_context"`
	YearlyData            []MergedYear        `json:"yearly_data"`
	FarmReference         *FarmReference      `json:"farm_reference,omitempty"`
	SpeciesReference      *SpeciesReference   `json:"species_reference,omitempty"`
	CoweetaBaseline       *CoweetaBaseline    `json:"coweeta_baseline,omitempty"`
	SeasonalCalendar      *CalendarReference  `json:"seasonal_calendar,omitempty"`
	ModernSpeciesBaseline *BaselineReference  `json:"modern_species_baseline,omitempty"`
	HistoricalSpecimens   *SpecimensReference `json:"historical_specimens,omitempty"`
}
