package domain

// ChestnutSpeciesInfo identifies the tree and pathogen the chestnut artifact
// describes.
type ChestnutSpeciesInfo struct {
	Species            string   `json:"species"`
	CommonName         string   `json:"common_name"`
	Pathogen           string   `json:"pathogen"`
	PathogenCommonName string   `json:"pathogen_common_name"`
	Origin             string   `json:"origin"`
	Description        string   `json:"description"`
	Sources            []string `json:"sources"`
}

// ChestnutEvent is one dated entry in the blight's historical progression.
type ChestnutEvent struct {
	Year        int    `json:"year"`
	Location    string `json:"location"`
	Event       string `json:"event"`
	Description string `json:"description"`
}

// ChestnutYearStatus describes the state of the chestnut population for one
// year of the study period.
type ChestnutYearStatus struct {
	Year                     int    `json:"year"`
	BlightPresent            bool   `json:"blight_present"`
	MatureTreeStatus         string `json:"mature_tree_status"`
	EstimatedSurvivalPercent int    `json:"estimated_survival_percent"`
	RootSprouts              string `json:"root_sprouts"`
	SalvageLogging           bool   `json:"salvage_logging"`
	Notes                    string `json:"notes"`
}

// PreBlightEcology records the role the chestnut played before the blight.
type PreBlightEcology struct {
	ForestComposition  string   `json:"forest_composition"`
	EconomicImportance []string `json:"economic_importance"`
	EcologicalRole     []string `json:"ecological_role"`
}

// EcologicalConsequences records what followed the loss of the chestnut.
type EcologicalConsequences struct {
	ForestCompositionChange []string `json:"forest_composition_change"`
	WildlifeImpacts         []string `json:"wildlife_impacts"`
	EconomicImpacts         []string `json:"economic_impacts"`
}

// ChestnutArtifact is the compiled chestnut-blight timeline artifact.
type ChestnutArtifact struct {
	Metadata               Metadata                   `json:"metadata"`
	SpeciesInfo            ChestnutSpeciesInfo        `json:"species_info"`
	PreBlightEcology       PreBlightEcology           `json:"pre_blight_ecology"`
	MajorEvents            []ChestnutEvent            `json:"major_events"`
	YearlyStatus           map[int]ChestnutYearStatus `json:"yearly_status"`
	EcologicalConsequences EcologicalConsequences     `json:"ecological_consequences"`
}

// PesticideEvent is one dated entry in the pesticide-era timeline.
type PesticideEvent struct {
	Year        int    `json:"year"`
	Event       string `json:"event"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// PesticideYearData describes pesticide availability and regional use for
// one year of the study period.
type PesticideYearData struct {
	Year                    int      `json:"year"`
	DDTAvailable            bool     `json:"ddt_available"`
	DDTAgriculturalUse      bool     `json:"ddt_agricultural_use"`
	EstimatedRegionalUsage  string   `json:"estimated_regional_usage"`
	CommonPesticides        []string `json:"common_pesticides"`
	ForestServiceSpraying   bool     `json:"forest_service_spraying"`
	AgriculturalApplication bool     `json:"agricultural_application"`
	Notes                   string   `json:"notes"`
}

// PesticideArtifact is the compiled pesticide-era timeline artifact.
type PesticideArtifact struct {
	Metadata    Metadata                  `json:"metadata"`
	MajorEvents []PesticideEvent          `json:"major_events"`
	YearlyData  map[int]PesticideYearData `json:"yearly_data"`
}
