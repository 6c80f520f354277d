package fetch

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// CountyOccurrenceFetcher fetches occurrences of a taxon in a county over a
// year range.
type CountyOccurrenceFetcher interface {
	FetchCountyOccurrences(ctx context.Context, taxonKey int, county, state string, startYear, endYear int) ([]domain.Occurrence, error)
}

// specimenTaxa are the insect and plant groups collected into the historical
// specimens artifact, in fetch order. Keys are GBIF backbone taxon keys.
var specimenTaxa = []struct {
	Name        string
	Key         int
	Description string
}{
	{"Plantae", 6, "Plants"},
	{"Insecta", 212, "Insects"},
	{"Lepidoptera", 797, "Butterflies and Moths"},
	{"Coleoptera", 1457, "Beetles"},
	{"Hymenoptera", 1459, "Bees, Wasps, Ants"},
	{"Odonata", 216, "Dragonflies, Damselflies"},
	{"Orthoptera", 220, "Grasshoppers, Crickets"},
}

// SpecimensStage fetches museum and collection records for the county and
// compiles per-taxon species summaries. These are mostly physical specimens
// digitized decades later, the densest occurrence data for the period.
type SpecimensStage struct {
	cfg       *config.Config
	source    CountyOccurrenceFetcher
	publisher OccurrencePublisher
	store     *artifact.Store
	logger    *slog.Logger
	metrics   *observability.Metrics
	runID     string
}

// NewSpecimensStage wires the historical specimens collection stage. A nil
// publisher disables occurrence publishing.
func NewSpecimensStage(cfg *config.Config, source CountyOccurrenceFetcher, publisher OccurrencePublisher, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *SpecimensStage {
	return &SpecimensStage{
		cfg:       cfg,
		source:    source,
		publisher: publisher,
		store:     store,
		logger:    logger,
		metrics:   metrics,
		runID:     runID,
	}
}

func (s *SpecimensStage) Name() string { return "specimens" }

// Run fetches every taxon and writes the specimens artifact. A fetch error
// for one taxon keeps whatever records were retrieved.
func (s *SpecimensStage) Run(ctx context.Context) error {
	byTaxon := make(map[string]domain.TaxonSummary, len(specimenTaxa))
	summary := domain.SpecimensSummary{
		RecordsByTaxon: make(map[string]int, len(specimenTaxa)),
		RecordsByYear:  make(map[int]int),
	}
	allSpecies := make(map[string]bool)

	for _, taxon := range specimenTaxa {
		occurrences, err := s.source.FetchCountyOccurrences(ctx, taxon.Key, s.cfg.County, s.cfg.StateProvince, s.cfg.StartYear, s.cfg.EndYear)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("taxon fetch ended early, keeping partial results",
				"taxon", taxon.Name, "records", len(occurrences), "error", err)
		}

		ts := summarizeTaxon(occurrences, s.cfg.StartYear, s.cfg.EndYear)
		ts.Description = taxon.Description
		ts.TaxonKey = taxon.Key
		byTaxon[taxon.Name] = ts

		summary.TotalRecords += len(occurrences)
		summary.RecordsByTaxon[taxon.Name] = len(occurrences)
		for _, occ := range occurrences {
			if occ.Year >= s.cfg.StartYear && occ.Year <= s.cfg.EndYear {
				summary.RecordsByYear[occ.Year]++
			}
			if name := occ.Name(); name != "" {
				allSpecies[name] = true
			}
		}

		s.publish(ctx, taxon.Name, occurrences)
	}
	summary.UniqueSpeciesCount = len(allSpecies)

	art := domain.SpecimensArtifact{
		Metadata: domain.NewMetadata(
			"GBIF (Global Biodiversity Information Facility)",
			s.cfg.County+" County, "+s.cfg.StateProvince,
			s.cfg.Period(),
			s.runID,
		),
		Summary:        summary,
		SpeciesByTaxon: byTaxon,
	}
	art.Metadata.API = "https://api.gbif.org/v1"

	return writeArtifact(s.store, s.metrics, s.logger, artifact.SpecimensName(s.cfg.StartYear, s.cfg.EndYear), art)
}

func (s *SpecimensStage) publish(ctx context.Context, taxonName string, occurrences []domain.Occurrence) {
	if s.publisher == nil || len(occurrences) == 0 {
		return
	}
	tagged := make([]domain.Occurrence, len(occurrences))
	for i, occ := range occurrences {
		occ.TaxonGroup = taxonName
		tagged[i] = occ
	}
	if err := s.publisher.PublishBatch(ctx, tagged, time.Now()); err != nil {
		s.logger.Warn("occurrence publish failed", "taxon", taxonName, "error", err)
		return
	}
	s.metrics.OccurrencesPublished.Add(float64(len(tagged)))
}

// summarizeTaxon rolls one taxon's occurrences up into species summaries
// sorted by specimen count descending, plus a per-year record count limited
// to the study period.
func summarizeTaxon(occurrences []domain.Occurrence, startYear, endYear int) domain.TaxonSummary {
	type acc struct {
		summary domain.SpeciesSummary
		years   map[int]bool
	}
	species := make(map[string]*acc)

	recordsByYear := make(map[int]int)
	for _, occ := range occurrences {
		if occ.Year >= startYear && occ.Year <= endYear {
			recordsByYear[occ.Year]++
		}

		name := occ.Name()
		if name == "" {
			continue
		}
		a := species[name]
		if a == nil {
			a = &acc{
				summary: domain.SpeciesSummary{
					Species:        name,
					ScientificName: occ.ScientificName,
					VernacularName: occ.VernacularName,
					Family:         occ.Family,
				},
				years: make(map[int]bool),
			}
			species[name] = a
		}
		a.summary.SpecimenCount++
		if occ.Year != 0 {
			a.years[occ.Year] = true
		}
	}

	list := make([]domain.SpeciesSummary, 0, len(species))
	for _, a := range species {
		years := make([]int, 0, len(a.years))
		for y := range a.years {
			years = append(years, y)
		}
		sort.Ints(years)
		a.summary.YearsRecorded = years
		list = append(list, a.summary)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SpecimenCount != list[j].SpecimenCount {
			return list[i].SpecimenCount > list[j].SpecimenCount
		}
		return list[i].Species < list[j].Species
	})

	return domain.TaxonSummary{
		TotalRecords:  len(occurrences),
		UniqueSpecies: len(list),
		Species:       list,
		RecordsByYear: recordsByYear,
	}
}
