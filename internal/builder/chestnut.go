package builder

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// ChestnutStage compiles the American Chestnut blight timeline, the single
// most significant ecological event of the period in the Southern
// Appalachians.
type ChestnutStage struct {
	cfg     *config.Config
	store   *artifact.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	runID   string
}

// NewChestnutStage wires the chestnut-timeline compilation stage.
func NewChestnutStage(cfg *config.Config, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *ChestnutStage {
	return &ChestnutStage{cfg: cfg, store: store, logger: logger, metrics: metrics, runID: runID}
}

func (s *ChestnutStage) Name() string { return "chestnut" }

// Run compiles and writes the chestnut-blight artifact for the configured
// period.
func (s *ChestnutStage) Run(_ context.Context) error {
	art := domain.ChestnutArtifact{
		Metadata: domain.NewMetadata(
			"US Forest Service Historical Records + American Chestnut Foundation",
			s.cfg.LocationName,
			s.cfg.Period(),
			s.runID,
		),
		SpeciesInfo:            chestnutSpeciesInfo(),
		PreBlightEcology:       preBlightEcology(),
		MajorEvents:            chestnutMajorEvents(),
		YearlyStatus:           make(map[int]domain.ChestnutYearStatus, s.cfg.EndYear-s.cfg.StartYear+1),
		EcologicalConsequences: ecologicalConsequences(),
	}
	for _, year := range s.cfg.Years() {
		art.YearlyStatus[year] = ChestnutStatusForYear(year)
	}

	return writeArtifact(s.store, s.metrics, s.logger, artifact.ChestnutName(s.cfg.StartYear, s.cfg.EndYear), art)
}

// ChestnutStatusForYear derives the state of the chestnut population for one
// year. Exported so the validation command can re-derive and compare.
func ChestnutStatusForYear(year int) domain.ChestnutYearStatus {
	status := domain.ChestnutYearStatus{
		Year:          year,
		BlightPresent: true,
	}

	switch {
	case year <= 1933:
		status.MatureTreeStatus = "dying"
		status.EstimatedSurvivalPercent = 40
		status.Notes = "Active blight spread; many trees infected but still standing"
	case year <= 1938:
		status.MatureTreeStatus = "mass_mortality"
		status.EstimatedSurvivalPercent = 15
		status.Notes = "Peak mortality period; dead and dying trees throughout forest"
	case year <= 1945:
		status.MatureTreeStatus = "functionally_extinct"
		status.EstimatedSurvivalPercent = 2
		status.Notes = "Mature trees essentially gone; some root sprouts surviving"
	default:
		status.MatureTreeStatus = "extinct_as_canopy"
		status.EstimatedSurvivalPercent = 0
		status.Notes = "Only root sprouts remain; forest composition shift complete"
	}

	status.RootSprouts = "emerging"
	if year >= 1935 {
		status.RootSprouts = "present"
	}
	status.SalvageLogging = year >= 1935 && year <= 1945

	return status
}

func chestnutSpeciesInfo() domain.ChestnutSpeciesInfo {
	return domain.ChestnutSpeciesInfo{
		Species:            "Castanea dentata",
		CommonName:         "American Chestnut",
		Pathogen:           "Cryphonectria parasitica (formerly Endothia parasitica)",
		PathogenCommonName: "Chestnut blight fungus",
		Origin:             "Introduced from Asian chestnut trees imported to New York",
		Description:        "The American chestnut was once the dominant tree of Eastern forests, comprising up to 25% of hardwood trees. The blight killed an estimated 3-4 billion trees.",
		Sources: []string{
			"US Forest Service Historical Records",
			"American Chestnut Foundation",
			"Freinkel, Susan. 'American Chestnut: The Life, Death, and Rebirth of a Perfect Tree' (2007)",
			"Anagnostakis, Sandra L. 'Chestnut Blight: The Classical Problem of an Introduced Pathogen' (1987)",
			"NC Forest Service Archives",
		},
	}
}

func preBlightEcology() domain.PreBlightEcology {
	return domain.PreBlightEcology{
		ForestComposition: "American chestnut comprised 25-30% of Southern Appalachian hardwood forests",
		EconomicImportance: []string{
			"Primary source of tannin for leather industry",
			"Rot-resistant lumber for construction, fencing, railroad ties",
			"Nuts as food source for humans, livestock, and wildlife",
			"Reliable annual nut crop (unlike oaks which mast irregularly)",
		},
		EcologicalRole: []string{
			"Major food source for deer, bear, turkey, squirrels, and other wildlife",
			"Consistent annual mast crop provided reliable food",
			"Dominant canopy tree in mixed hardwood forests",
			"Supported unique insect and fungal communities",
		},
	}
}

func chestnutMajorEvents() []domain.ChestnutEvent {
	return []domain.ChestnutEvent{
		{Year: 1904, Location: "Bronx Zoo, New York City", Event: "Chestnut blight first discovered", Description: "Forester Hermann Merkel identifies unusual cankers killing chestnut trees at the Bronx Zoo"},
		{Year: 1905, Location: "New York", Event: "Pathogen identified", Description: "Mycologist William Murrill identifies the fungus causing the blight"},
		{Year: 1908, Location: "Pennsylvania", Event: "Rapid spread documented", Description: "Blight spreading rapidly through Pennsylvania forests"},
		{Year: 1911, Location: "Pennsylvania", Event: "Pennsylvania Blight Commission formed", Description: "First organized scientific effort to combat the blight"},
		{Year: 1912, Location: "Virginia", Event: "Blight reaches Virginia", Description: "Southern spread accelerating down the Appalachian chain"},
		{Year: 1920, Location: "Virginia/Tennessee border", Event: "Blight approaching Southern Appalachians", Description: "Scientists tracking southward progression of blight front"},
		{Year: 1923, Location: "North Carolina", Event: "First blight cases in NC mountains", Description: "Chestnut blight confirmed in North Carolina mountain counties"},
		{Year: 1926, Location: "Western NC", Event: "Blight widespread in region", Description: "Blight established throughout the Black Mountain region"},
		{Year: 1930, Location: "Southern Appalachians", Event: "Mass mortality begins", Description: "Large-scale death of chestnut trees accelerating"},
		{Year: 1933, Location: "Black Mountain region", Event: "College opens amid dying forest", Description: "Black Mountain College opens as chestnut blight transforms surrounding forests"},
		{Year: 1938, Location: "Southern Appalachians", Event: "Peak mortality", Description: "Majority of mature American chestnuts dead or dying"},
		{Year: 1940, Location: "Southern Appalachians", Event: "Near-complete extinction of mature trees", Description: "American chestnut functionally extinct as a canopy tree in Southern Appalachians"},
		{Year: 1950, Location: "Eastern US", Event: "Blight reaches Gulf Coast", Description: "Entire native range affected; estimated 3-4 billion trees dead"},
	}
}

func ecologicalConsequences() domain.EcologicalConsequences {
	return domain.EcologicalConsequences{
		ForestCompositionChange: []string{
			"Oaks (Quercus spp.) became dominant canopy trees",
			"Red maple (Acer rubrum) increased significantly",
			"Hickories (Carya spp.) expanded",
			"Tulip poplar (Liriodendron tulipifera) increased",
		},
		WildlifeImpacts: []string{
			"Loss of reliable annual mast crop",
			"Black bear and wild turkey populations declined",
			"Shift to oak mast with irregular production years",
			"Some insect species dependent on chestnut went extinct",
		},
		EconomicImpacts: []string{
			"Loss of tannin industry",
			"Loss of valuable lumber source",
			"Loss of subsistence nut crop for rural communities",
			"CCC programs employed workers to salvage dead trees",
		},
	}
}
