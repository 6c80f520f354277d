package domain

// SpeciesActivity is one species entry in a monthly calendar bucket. Only
// the fields relevant to the taxon group are populated.
type SpeciesActivity struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Family         string `json:"family,omitempty"`
	Type           string `json:"type,omitempty"`
	Habitat        string `json:"habitat,omitempty"`
	Abundance      string `json:"abundance,omitempty"`
	Status         string `json:"status,omitempty"`
	Activity       string `json:"activity,omitempty"`
}

// TaxonCalendar maps month number to the species active that month. Every
// calendar carries all twelve keys, possibly with empty lists.
type TaxonCalendar map[int][]SpeciesActivity

// NewTaxonCalendar returns a calendar with all twelve months present and
// empty.
func NewTaxonCalendar() TaxonCalendar {
	cal := make(TaxonCalendar, 12)
	for m := 1; m <= 12; m++ {
		cal[m] = []SpeciesActivity{}
	}
	return cal
}

// MonthSummary counts activity per taxon group for one month.
type MonthSummary struct {
	MonthNumber       int      `json:"month_number"`
	ButterfliesActive int      `json:"butterflies_active"`
	MothsActive       int      `json:"moths_active"`
	PlantsBlooming    int      `json:"plants_blooming"`
	BirdsPresent      int      `json:"birds_present"`
	AmphibiansActive  int      `json:"amphibians_active"`
	EcologicalEvents  []string `json:"ecological_events"`
}

// MonthDetail is the full species-level picture for one month.
type MonthDetail struct {
	MonthNumber      int               `json:"month_number"`
	Season           string            `json:"season"`
	Butterflies      []SpeciesActivity `json:"butterflies"`
	Moths            []SpeciesActivity `json:"moths"`
	PlantsBlooming   []SpeciesActivity `json:"plants_blooming"`
	Birds            []SpeciesActivity `json:"birds"`
	Amphibians       []SpeciesActivity `json:"amphibians"`
	EcologicalEvents []string          `json:"ecological_events"`
}

// SeasonalCalendarArtifact is the month-by-month ecological activity
// calendar, keyed by English month name.
type SeasonalCalendarArtifact struct {
	Metadata          Metadata                `json:"metadata"`
	Summary           map[string]MonthSummary `json:"summary"`
	DetailedCalendars map[string]MonthDetail  `json:"detailed_calendars"`
}

// SpeciesTraits describes one species in the traits reference artifact, with
// flight months for lepidoptera and bloom months for plants.
type SpeciesTraits struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Family         string `json:"family"`
	Type           string `json:"type,omitempty"`
	Habitat        string `json:"habitat,omitempty"`
	Abundance      string `json:"abundance,omitempty"`
	FlightMonths   []int  `json:"flight_months,omitempty"`
	BloomMonths    []int  `json:"bloom_months,omitempty"`
}

// SpeciesTraitsGroup is one taxon group's species list in the traits
// artifact.
type SpeciesTraitsGroup struct {
	Species []SpeciesTraits `json:"species"`
}

// SpeciesTraitsArtifact is the curated regional species-traits reference.
// It has no producer in this pipeline; when present on disk it feeds the
// seasonal calendar and the merged species reference.
type SpeciesTraitsArtifact struct {
	Metadata    Metadata           `json:"metadata"`
	Butterflies SpeciesTraitsGroup `json:"butterflies"`
	Moths       SpeciesTraitsGroup `json:"moths"`
	Plants      SpeciesTraitsGroup `json:"plants"`
}
