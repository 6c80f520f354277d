package fetch

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/inaturalist"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// butterflyTaxonID is the Papilionoidea superfamily, used to separate true
// butterflies from the broader Lepidoptera list.
const butterflyTaxonID = 47223

// baselineTaxa are the iconic taxa sampled for the modern baseline, in fetch
// order. IDs are iNaturalist taxon IDs.
var baselineTaxa = []struct {
	Name        string
	ID          int
	Description string
}{
	{"Insecta", 47158, "Insects"},
	{"Lepidoptera", 47157, "Butterflies and Moths"},
	{"Plantae", 47126, "Plants"},
	{"Odonata", 47792, "Dragonflies and Damselflies"},
	{"Coleoptera", 47208, "Beetles"},
	{"Hymenoptera", 47201, "Bees, Wasps, Ants"},
}

// Caps on the grouped baseline lists; the merged dataset only needs the most
// observed species per group.
const (
	butterflyCap = 100
	mothCap      = 100
	insectCap    = 100
	dragonflyCap = 50
	beeWaspCap   = 50
	plantCap     = 200
)

// SpeciesCounter resolves a place and fetches species counts and monthly
// observation totals from a modern observation source.
type SpeciesCounter interface {
	FindPlaceID(ctx context.Context, county, state string, lat, lon float64) int
	FetchSpeciesCounts(ctx context.Context, placeID, taxonID int) ([]inaturalist.Species, error)
	FetchMonthlyCounts(ctx context.Context, placeID, taxonID int) (map[int]int, error)
}

// BaselineStage fetches modern species observations and monthly activity
// patterns. Modern presence of a native species implies presence during the
// study period, so this is the inferred floor under the sparse historical
// record.
type BaselineStage struct {
	cfg     *config.Config
	source  SpeciesCounter
	store   *artifact.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	runID   string
}

// NewBaselineStage wires the modern-baseline collection stage.
func NewBaselineStage(cfg *config.Config, source SpeciesCounter, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *BaselineStage {
	return &BaselineStage{
		cfg:     cfg,
		source:  source,
		store:   store,
		logger:  logger,
		metrics: metrics,
		runID:   runID,
	}
}

func (s *BaselineStage) Name() string { return "baseline" }

// Run fetches species counts and seasonal patterns for every iconic taxon,
// plus a dedicated butterfly list, and writes the baseline artifact.
func (s *BaselineStage) Run(ctx context.Context) error {
	placeID := s.source.FindPlaceID(ctx, s.cfg.County, s.cfg.StateProvince, s.cfg.Latitude, s.cfg.Longitude)

	byTaxon := make(map[string][]inaturalist.Species, len(baselineTaxa))
	seasonal := make(map[string]map[int]int, len(baselineTaxa))
	summary := domain.BaselineSummary{
		SpeciesByTaxon: make(map[string]int, len(baselineTaxa)),
	}

	for _, taxon := range baselineTaxa {
		species, err := s.source.FetchSpeciesCounts(ctx, placeID, taxon.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("species counts ended early, keeping partial results",
				"taxon", taxon.Name, "species", len(species), "error", err)
		}
		sortByObservations(species)
		byTaxon[taxon.Name] = species
		summary.SpeciesByTaxon[taxon.Name] = len(species)
		summary.TotalSpecies += len(species)

		months, err := s.source.FetchMonthlyCounts(ctx, placeID, taxon.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("monthly counts incomplete", "taxon", taxon.Name, "error", err)
		}
		seasonal[taxon.Name] = months
	}

	butterflies, err := s.source.FetchSpeciesCounts(ctx, placeID, butterflyTaxonID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("butterfly counts ended early, keeping partial results",
			"species", len(butterflies), "error", err)
	}
	sortByObservations(butterflies)

	art := domain.BaselineArtifact{
		Metadata: domain.NewMetadata(
			"iNaturalist",
			s.cfg.County+" County, "+s.cfg.StateProvince,
			s.cfg.Period(),
			s.runID,
			"Modern observations used to establish species presence",
			"Historical presence inferred for native species",
			"Seasonal patterns based on observation dates",
		),
		Summary:          summary,
		BaselineSpecies:  groupBaselineSpecies(byTaxon, butterflies),
		SeasonalPatterns: seasonal,
	}
	art.Metadata.API = "https://api.inaturalist.org/v1"

	return writeArtifact(s.store, s.metrics, s.logger, artifact.BaselineFile, art)
}

// groupBaselineSpecies builds the capped per-group lists consumed by the
// merge stage. Moths are split out of Lepidoptera by common name, since the
// source has no direct moth taxon.
func groupBaselineSpecies(byTaxon map[string][]inaturalist.Species, butterflies []inaturalist.Species) map[string][]domain.BaselineSpecies {
	var moths []inaturalist.Species
	for _, sp := range byTaxon["Lepidoptera"] {
		if strings.Contains(strings.ToLower(sp.CommonName), "moth") {
			moths = append(moths, sp)
		}
	}

	groups := map[string][]domain.BaselineSpecies{
		"butterflies":   toBaselineSpecies(butterflies, butterflyCap, true),
		"moths":         toBaselineSpecies(moths, mothCap, false),
		"insects_other": toBaselineSpecies(byTaxon["Insecta"], insectCap, false),
		"dragonflies":   toBaselineSpecies(byTaxon["Odonata"], dragonflyCap, false),
		"bees_wasps":    toBaselineSpecies(byTaxon["Hymenoptera"], beeWaspCap, false),
		"plants":        toBaselineSpecies(byTaxon["Plantae"], plantCap, false),
	}
	return groups
}

func toBaselineSpecies(species []inaturalist.Species, limit int, withURL bool) []domain.BaselineSpecies {
	if len(species) > limit {
		species = species[:limit]
	}
	out := make([]domain.BaselineSpecies, 0, len(species))
	for _, sp := range species {
		bs := domain.BaselineSpecies{
			ScientificName: sp.ScientificName,
			CommonName:     sp.CommonName,
			Observations:   sp.Observations,
		}
		if withURL {
			bs.SourceURL = sp.SourceURL
		}
		out = append(out, bs)
	}
	return out
}

func sortByObservations(species []inaturalist.Species) {
	sort.SliceStable(species, func(i, j int) bool {
		return species[i].Observations > species[j].Observations
	})
}
