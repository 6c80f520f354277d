package domain

// SpeciesCount is one species observed in a given year with an occurrence
// tally.
type SpeciesCount struct {
	Species        string `json:"species"`
	ScientificName string `json:"scientific_name"`
	VernacularName string `json:"vernacular_name"`
	Family         string `json:"family"`
	Count          int    `json:"count"`
}

// YearSpecies is the species list for one taxon in one year, sorted by
// observation count descending.
type YearSpecies struct {
	Species           []SpeciesCount `json:"species"`
	TotalSpecies      int            `json:"total_species"`
	TotalObservations int            `json:"total_observations"`
}

// KnownSpecies is a historically documented species that may not appear in
// occurrence databases for the period.
type KnownSpecies struct {
	Species        string `json:"species"`
	VernacularName string `json:"vernacular_name"`
	Status         string `json:"status"`
	Notes          string `json:"notes,omitempty"`
}

// KnownSpeciesGroup is one taxon's documented species list with its source.
type KnownSpeciesGroup struct {
	YearRange     [2]int         `json:"year_range"`
	CommonSpecies []KnownSpecies `json:"common_species"`
	Source        string         `json:"source"`
}

// BiodiversityArtifact combines fetched yearly species lists with documented
// historical species. Occurrence data for the period is sparse, so the known
// species act as a documented floor under the fetched records.
type BiodiversityArtifact struct {
	Metadata     Metadata                       `json:"metadata"`
	GBIFRecords  map[string]map[int]YearSpecies `json:"gbif_records"`
	KnownSpecies map[string]KnownSpeciesGroup   `json:"known_species"`
}
