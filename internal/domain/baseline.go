package domain

// BaselineSpecies is one species from the modern observation baseline.
// Modern presence of a native species implies presence during the study
// period.
type BaselineSpecies struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Observations   int    `json:"observations"`
	SourceURL      string `json:"source_url,omitempty"`
}

// BaselineSummary totals the baseline fetch across taxa.
type BaselineSummary struct {
	TotalSpecies   int            `json:"total_species"`
	SpeciesByTaxon map[string]int `json:"species_by_taxon"`
}

// BaselineArtifact is the processed modern-species baseline. BaselineSpecies
// groups species by named list (butterflies, moths, insects_other,
// dragonflies, bees_wasps, plants); SeasonalPatterns maps taxon name to
// per-month observation totals.
type BaselineArtifact struct {
	Metadata         Metadata                     `json:"metadata"`
	Summary          BaselineSummary              `json:"summary"`
	BaselineSpecies  map[string][]BaselineSpecies `json:"baseline_species"`
	SeasonalPatterns map[string]map[int]int       `json:"seasonal_patterns"`
}
