package domain

// Occurrence is one reported sighting or specimen of a species at a time and
// place, normalized from a biodiversity source. Fields absent in the source
// are zero values, never omitted keys, so all records are structurally
// uniform in the artifact.
type Occurrence struct {
	SourceKey      int64  `json:"source_key"`
	Species        string `json:"species"`
	ScientificName string `json:"scientific_name"`
	VernacularName string `json:"vernacular_name"`

	Kingdom string `json:"kingdom"`
	Phylum  string `json:"phylum"`
	Class   string `json:"class"`
	Order   string `json:"order"`
	Family  string `json:"family"`
	Genus   string `json:"genus"`

	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	EventDate string `json:"event_date"`

	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Locality      string  `json:"locality"`
	County        string  `json:"county"`
	StateProvince string  `json:"state_province"`

	RecordedBy      string `json:"recorded_by"`
	InstitutionCode string `json:"institution_code"`
	CollectionCode  string `json:"collection_code"`
	CatalogNumber   string `json:"catalog_number"`
	BasisOfRecord   string `json:"basis_of_record"`
	DatasetName     string `json:"dataset_name"`
	DatasetKey      string `json:"dataset_key"`
	OccurrenceID    string `json:"occurrence_id"`
	SourceURL       string `json:"source_url"`

	TaxonGroup string `json:"taxon_group,omitempty"`
}

// Name returns the best available species label: the interpreted species
// name, falling back to the full scientific name.
func (o Occurrence) Name() string {
	if o.Species != "" {
		return o.Species
	}
	return o.ScientificName
}

// SpeciesSummary aggregates all occurrences of one species.
type SpeciesSummary struct {
	Species        string `json:"species"`
	ScientificName string `json:"scientific_name"`
	VernacularName string `json:"vernacular_name"`
	Family         string `json:"family"`
	SpecimenCount  int    `json:"specimen_count"`
	YearsRecorded  []int  `json:"years_recorded"`
}

// TaxonSummary is the per-taxon section of the specimens artifact, species
// sorted by specimen count descending.
type TaxonSummary struct {
	Description   string           `json:"description"`
	TaxonKey      int              `json:"taxon_key"`
	TotalRecords  int              `json:"total_records"`
	UniqueSpecies int              `json:"unique_species"`
	Species       []SpeciesSummary `json:"species"`
	RecordsByYear map[int]int      `json:"records_by_year"`
}

// SpecimensSummary totals a specimens fetch across all taxa.
type SpecimensSummary struct {
	TotalRecords       int            `json:"total_records"`
	RecordsByTaxon     map[string]int `json:"records_by_taxon"`
	RecordsByYear      map[int]int    `json:"records_by_year"`
	UniqueSpeciesCount int            `json:"unique_species_count"`
}

// SpecimensArtifact is the processed historical-specimens artifact built from
// museum and collection records.
type SpecimensArtifact struct {
	Metadata       Metadata                `json:"metadata"`
	Summary        SpecimensSummary        `json:"summary"`
	SpeciesByTaxon map[string]TaxonSummary `json:"species_by_taxon"`
}
