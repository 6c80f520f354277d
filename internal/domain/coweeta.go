package domain

// TreeShare is one tree species' share of the forest canopy, as a range
// string for the pre-blight era or a trend label for the transition.
type TreeShare struct {
	Species    string `json:"species"`
	CommonName string `json:"common_name"`
	Percentage string `json:"percentage,omitempty"`
	Trend      string `json:"trend,omitempty"`
	Habitat    string `json:"habitat,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// ForestComposition documents canopy composition before the blight and the
// species that replaced the chestnut.
type ForestComposition struct {
	Period               string      `json:"period"`
	Notes                string      `json:"notes"`
	PreBlight            []TreeShare `json:"pre_blight"`
	PostBlightTransition []TreeShare `json:"post_blight_transition"`
}

// BlightImpact summarizes the ecosystem cost of losing the chestnut.
type BlightImpact struct {
	BiomassLoss        string   `json:"biomass_loss"`
	MastProductionLoss string   `json:"mast_production_loss"`
	SpeciesAffected    []string `json:"species_affected"`
}

// BlightTimeline is the reference site's documented blight progression.
type BlightTimeline struct {
	Milestones map[int]string `json:"milestones"`
	Impact     BlightImpact   `json:"impact"`
}

// WildlifeRecord is one documented species at the reference site during the
// study period.
type WildlifeRecord struct {
	Species    string `json:"species"`
	CommonName string `json:"common_name"`
	Status     string `json:"status"`
	Season     string `json:"season,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// ForestCompositionYear estimates canopy shares for one year, driven by the
// chestnut's decline.
type ForestCompositionYear struct {
	AmericanChestnutPercent float64 `json:"american_chestnut_percent"`
	OaksPercent             float64 `json:"oaks_percent"`
	TulipPoplarPercent      float64 `json:"tulip_poplar_percent"`
	RedMaplePercent         float64 `json:"red_maple_percent"`
	HickoriesPercent        float64 `json:"hickories_percent"`
	HemlockPercent          float64 `json:"hemlock_percent"`
	OtherPercent            float64 `json:"other_percent"`
	Notes                   string  `json:"notes"`
}

// SeasonPattern lists a season's months and characteristic events.
type SeasonPattern struct {
	Months []int    `json:"months"`
	Events []string `json:"events"`
}

// EraBaseline is the reconstructed ecological baseline for the study site
// and period, grounded in the reference site's long-term records.
type EraBaseline struct {
	Period                  string                        `json:"period"`
	Location                string                        `json:"location"`
	Ecoregion               string                        `json:"ecoregion"`
	ForestType              string                        `json:"forest_type"`
	ClimateZone             string                        `json:"climate_zone"`
	ForestCompositionByYear map[int]ForestCompositionYear `json:"forest_composition_by_year"`
	SeasonalPatterns        map[string]SeasonPattern      `json:"seasonal_patterns"`
}

// CoweetaSummary carries the reference site's vital statistics.
type CoweetaSummary struct {
	Established        int `json:"established"`
	DistanceFromSiteKM int `json:"distance_from_site_km"`
	AvailableDatasets  int `json:"available_datasets"`
}

// CoweetaArtifact is the processed long-term ecological research baseline:
// compiled historical context plus the repository's dataset list.
type CoweetaArtifact struct {
	Metadata          Metadata                    `json:"metadata"`
	Summary           CoweetaSummary              `json:"summary"`
	ForestComposition ForestComposition           `json:"historical_forest_composition"`
	BlightTimeline    BlightTimeline              `json:"chestnut_blight_timeline"`
	WildlifeRecords   map[string][]WildlifeRecord `json:"wildlife_records"`
	EraBaseline       EraBaseline                 `json:"era_baseline"`
	DatasetList       []string                    `json:"dataset_list,omitempty"`
}
