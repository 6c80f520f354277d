package builder

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// PesticideStage compiles the synthetic-pesticide-era timeline. The period
// spans the arrival of DDT, from pre-war arsenates through the postwar
// spraying programs.
type PesticideStage struct {
	cfg     *config.Config
	store   *artifact.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	runID   string
}

// NewPesticideStage wires the pesticide-timeline compilation stage.
func NewPesticideStage(cfg *config.Config, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *PesticideStage {
	return &PesticideStage{cfg: cfg, store: store, logger: logger, metrics: metrics, runID: runID}
}

func (s *PesticideStage) Name() string { return "pesticide" }

// Run compiles and writes the pesticide artifact for the configured period.
func (s *PesticideStage) Run(_ context.Context) error {
	art := domain.PesticideArtifact{
		Metadata: domain.NewMetadata(
			"EPA Historical Documents + USDA Agricultural Statistics",
			s.cfg.LocationName,
			s.cfg.Period(),
			s.runID,
			"US Forest Service Records",
			"Rachel Carson's Silent Spring (1962) - historical references",
			"NC Department of Agriculture Archives",
		),
		MajorEvents: pesticideMajorEvents(),
		YearlyData:  make(map[int]domain.PesticideYearData, s.cfg.EndYear-s.cfg.StartYear+1),
	}
	for _, year := range s.cfg.Years() {
		art.YearlyData[year] = PesticideDataForYear(year)
	}

	return writeArtifact(s.store, s.metrics, s.logger, artifact.PesticidesName(s.cfg.StartYear, s.cfg.EndYear), art)
}

// PesticideDataForYear derives pesticide availability and regional use for
// one year. Exported so the validation command can re-derive and compare.
func PesticideDataForYear(year int) domain.PesticideYearData {
	data := domain.PesticideYearData{
		Year:                   year,
		DDTAvailable:           year >= 1945,
		DDTAgriculturalUse:     year >= 1946,
		EstimatedRegionalUsage: "none",
	}

	switch {
	case year < 1939:
		data.Notes = "Pre-synthetic pesticide era; arsenic-based compounds and natural pesticides used"
		data.CommonPesticides = []string{"lead arsenate", "calcium arsenate", "pyrethrum", "rotenone"}
		data.EstimatedRegionalUsage = "low"
	case year < 1945:
		data.Notes = "DDT in military use only; traditional pesticides continue"
		data.CommonPesticides = []string{"lead arsenate", "calcium arsenate", "pyrethrum", "rotenone"}
		data.EstimatedRegionalUsage = "low"
	case year < 1950:
		data.Notes = "DDT becoming available; adoption growing"
		data.CommonPesticides = []string{"DDT", "lead arsenate", "BHC (lindane)", "chlordane"}
		data.EstimatedRegionalUsage = "moderate"
	default:
		data.Notes = "Peak synthetic pesticide era; widespread DDT use"
		data.CommonPesticides = []string{"DDT", "BHC (lindane)", "chlordane", "aldrin", "dieldrin", "toxaphene"}
		data.EstimatedRegionalUsage = "high"
		if year >= 1954 {
			data.Notes += "; Fire ant program affects region"
		}
	}

	if year >= 1945 {
		data.ForestServiceSpraying = true
		data.AgriculturalApplication = true
		data.Notes += "; Tobacco and apple orchards primary agricultural users in region"
	}

	return data
}

func pesticideMajorEvents() []domain.PesticideEvent {
	return []domain.PesticideEvent{
		{Year: 1939, Event: "DDT discovered as insecticide", Description: "Paul Hermann Müller discovers DDT's insecticidal properties in Switzerland", Impact: "Beginning of synthetic pesticide era"},
		{Year: 1942, Event: "US military DDT production begins", Description: "US begins large-scale DDT production for military use against typhus and malaria", Impact: "Proven effective against disease-carrying insects"},
		{Year: 1943, Event: "DDT used in Naples typhus epidemic", Description: "First large-scale civilian use of DDT to control typhus outbreak", Impact: "Demonstrated public health potential"},
		{Year: 1945, Event: "DDT released for civilian use", Description: "US government authorizes DDT for general public sale", Impact: "Agricultural and household use begins"},
		{Year: 1946, Event: "Agricultural DDT use begins", Description: "Farmers begin using DDT for crop protection; USDA promotes usage", Impact: "Widespread adoption in agriculture"},
		{Year: 1948, Event: "First insect resistance observed", Description: "Houseflies show resistance to DDT in some areas", Impact: "Early warning sign ignored"},
		{Year: 1948, Event: "Müller receives Nobel Prize", Description: "Paul Müller awarded Nobel Prize in Physiology or Medicine for DDT discovery", Impact: "DDT seen as miracle chemical"},
		{Year: 1950, Event: "Peak DDT enthusiasm", Description: "US DDT production reaches massive scale; aerial spraying programs expand", Impact: "Environmental accumulation begins"},
		{Year: 1954, Event: "USDA fire ant eradication program", Description: "Massive aerial spraying campaign in Southern states using DDT and other chemicals", Impact: "Significant wildlife mortality observed"},
		{Year: 1957, Event: "First Forest Service restrictions", Description: "US Forest Service begins limiting DDT use in some areas due to wildlife concerns", Impact: "Early regulatory response"},
	}
}
