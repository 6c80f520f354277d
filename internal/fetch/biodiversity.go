package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// BBoxOccurrenceFetcher fetches occurrences of a taxon inside a bounding box
// over a year range.
type BBoxOccurrenceFetcher interface {
	FetchBBoxOccurrences(ctx context.Context, taxonKey int, box config.BoundingBox, startYear, endYear int) ([]domain.Occurrence, error)
}

// biodiversityTaxa are the vertebrate and plant groups collected into yearly
// species lists, in fetch order. Keys are GBIF backbone taxon keys.
var biodiversityTaxa = []struct {
	Name string
	Key  int
}{
	{"birds", 212},
	{"mammals", 359},
	{"plants", 6},
	{"fish", 204},
	{"amphibians", 131},
}

// BiodiversityStage fetches occurrence records for the region's major taxa
// and compiles them into per-year species lists, backed by a curated table
// of historically documented species. Occurrence data for the period is
// sparse, so the curated table acts as a documented floor.
type BiodiversityStage struct {
	cfg       *config.Config
	source    BBoxOccurrenceFetcher
	publisher OccurrencePublisher
	store     *artifact.Store
	logger    *slog.Logger
	metrics   *observability.Metrics
	runID     string
}

// NewBiodiversityStage wires the biodiversity collection stage. A nil
// publisher disables occurrence publishing.
func NewBiodiversityStage(cfg *config.Config, source BBoxOccurrenceFetcher, publisher OccurrencePublisher, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *BiodiversityStage {
	return &BiodiversityStage{
		cfg:       cfg,
		source:    source,
		publisher: publisher,
		store:     store,
		logger:    logger,
		metrics:   metrics,
		runID:     runID,
	}
}

func (s *BiodiversityStage) Name() string { return "biodiversity" }

// Run fetches every taxon and writes the biodiversity artifact. A fetch
// error for one taxon keeps whatever pages were retrieved; partial yearly
// lists are still useful for historical data.
func (s *BiodiversityStage) Run(ctx context.Context) error {
	records := make(map[string]map[int]domain.YearSpecies, len(biodiversityTaxa))

	for _, taxon := range biodiversityTaxa {
		occurrences, err := s.source.FetchBBoxOccurrences(ctx, taxon.Key, s.cfg.BBox, s.cfg.StartYear, s.cfg.EndYear)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("taxon fetch ended early, keeping partial results",
				"taxon", taxon.Name, "records", len(occurrences), "error", err)
		}

		records[taxon.Name] = yearlySpeciesLists(occurrences, s.cfg.StartYear, s.cfg.EndYear)
		s.publish(ctx, taxon.Name, occurrences)
	}

	art := domain.BiodiversityArtifact{
		Metadata: domain.NewMetadata(
			"GBIF API + Historical Records",
			s.cfg.LocationName,
			s.cfg.Period(),
			s.runID,
			fmt.Sprintf("Occurrence data for %s is sparse; known_species lists historically documented species", s.cfg.Period()),
		),
		GBIFRecords:  records,
		KnownSpecies: knownSpecies(s.cfg.StartYear, s.cfg.EndYear),
	}
	return writeArtifact(s.store, s.metrics, s.logger, artifact.BiodiversityName(s.cfg.StartYear, s.cfg.EndYear), art)
}

func (s *BiodiversityStage) publish(ctx context.Context, taxonName string, occurrences []domain.Occurrence) {
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

// yearlySpeciesLists aggregates occurrences into a species list per year.
// Every year in the range gets an entry, empty when nothing was recorded.
// Records without a year or any usable name are dropped; a record with only
// a genus is counted as "<genus> sp.".
func yearlySpeciesLists(occurrences []domain.Occurrence, startYear, endYear int) map[int]domain.YearSpecies {
	type yearName struct {
		year int
		name string
	}
	counts := make(map[yearName]*domain.SpeciesCount)

	for _, occ := range occurrences {
		if occ.Year < startYear || occ.Year > endYear {
			continue
		}
		name := occ.Species
		if name == "" {
			if occ.Genus == "" {
				continue
			}
			name = occ.Genus + " sp."
		}
		key := yearName{occ.Year, name}
		sc := counts[key]
		if sc == nil {
			scientific := occ.ScientificName
			if scientific == "" {
				scientific = name
			}
			sc = &domain.SpeciesCount{
				Species:        name,
				ScientificName: scientific,
				VernacularName: occ.VernacularName,
				Family:         occ.Family,
			}
			counts[key] = sc
		}
		sc.Count++
	}

	result := make(map[int]domain.YearSpecies, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		var list []domain.SpeciesCount
		for key, sc := range counts {
			if key.year == year {
				list = append(list, *sc)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].Species < list[j].Species
		})
		if list == nil {
			list = []domain.SpeciesCount{}
		}

		total := 0
		for _, sc := range list {
			total += sc.Count
		}
		result[year] = domain.YearSpecies{
			Species:           list,
			TotalSpecies:      len(list),
			TotalObservations: total,
		}
	}
	return result
}

// knownSpecies is the curated table of species documented in the region
// during the period by sources outside occurrence databases.
func knownSpecies(startYear, endYear int) map[string]domain.KnownSpeciesGroup {
	yearRange := [2]int{startYear, endYear}
	return map[string]domain.KnownSpeciesGroup{
		"birds": {
			YearRange: yearRange,
			CommonSpecies: []domain.KnownSpecies{
				{Species: "Cardinalis cardinalis", VernacularName: "Northern Cardinal", Status: "common resident"},
				{Species: "Cyanocitta cristata", VernacularName: "Blue Jay", Status: "common resident"},
				{Species: "Corvus brachyrhynchos", VernacularName: "American Crow", Status: "common resident"},
				{Species: "Turdus migratorius", VernacularName: "American Robin", Status: "common resident"},
				{Species: "Poecile carolinensis", VernacularName: "Carolina Chickadee", Status: "common resident"},
				{Species: "Sitta carolinensis", VernacularName: "White-breasted Nuthatch", Status: "common resident"},
				{Species: "Melanerpes carolinus", VernacularName: "Red-bellied Woodpecker", Status: "common resident"},
				{Species: "Dryobates pubescens", VernacularName: "Downy Woodpecker", Status: "common resident"},
				{Species: "Meleagris gallopavo", VernacularName: "Wild Turkey", Status: "present"},
				{Species: "Bonasa umbellus", VernacularName: "Ruffed Grouse", Status: "present"},
				{Species: "Cathartes aura", VernacularName: "Turkey Vulture", Status: "common"},
				{Species: "Buteo jamaicensis", VernacularName: "Red-tailed Hawk", Status: "present"},
			},
			Source: "Regional ornithological records, Christmas Bird Counts",
		},
		"mammals": {
			YearRange: yearRange,
			CommonSpecies: []domain.KnownSpecies{
				{Species: "Odocoileus virginianus", VernacularName: "White-tailed Deer", Status: "common"},
				{Species: "Procyon lotor", VernacularName: "Raccoon", Status: "common"},
				{Species: "Sciurus carolinensis", VernacularName: "Eastern Gray Squirrel", Status: "abundant"},
				{Species: "Tamias striatus", VernacularName: "Eastern Chipmunk", Status: "common"},
				{Species: "Sylvilagus floridanus", VernacularName: "Eastern Cottontail", Status: "common"},
				{Species: "Marmota monax", VernacularName: "Groundhog", Status: "present"},
				{Species: "Didelphis virginiana", VernacularName: "Virginia Opossum", Status: "common"},
				{Species: "Mephitis mephitis", VernacularName: "Striped Skunk", Status: "present"},
				{Species: "Ursus americanus", VernacularName: "Black Bear", Status: "present but declining"},
				{Species: "Canis latrans", VernacularName: "Coyote", Status: "rare/expanding"},
			},
			Source: "NC Wildlife Resources Commission historical records",
		},
		"plants": {
			YearRange: yearRange,
			CommonSpecies: []domain.KnownSpecies{
				{Species: "Castanea dentata", VernacularName: "American Chestnut", Status: "dying/extinct by 1940s", Notes: "Chestnut blight"},
				{Species: "Quercus alba", VernacularName: "White Oak", Status: "common"},
				{Species: "Quercus rubra", VernacularName: "Northern Red Oak", Status: "common"},
				{Species: "Liriodendron tulipifera", VernacularName: "Tulip Poplar", Status: "common"},
				{Species: "Acer rubrum", VernacularName: "Red Maple", Status: "common"},
				{Species: "Tsuga canadensis", VernacularName: "Eastern Hemlock", Status: "common"},
				{Species: "Pinus strobus", VernacularName: "Eastern White Pine", Status: "common"},
				{Species: "Rhododendron maximum", VernacularName: "Rosebay Rhododendron", Status: "abundant"},
				{Species: "Kalmia latifolia", VernacularName: "Mountain Laurel", Status: "abundant"},
				{Species: "Cornus florida", VernacularName: "Flowering Dogwood", Status: "common"},
			},
			Source: "USDA Forest Service records, Coweeta LTER",
		},
		"fish": {
			YearRange: yearRange,
			CommonSpecies: []domain.KnownSpecies{
				{Species: "Salvelinus fontinalis", VernacularName: "Brook Trout", Status: "native, common in streams"},
				{Species: "Oncorhynchus mykiss", VernacularName: "Rainbow Trout", Status: "introduced, stocked"},
				{Species: "Salmo trutta", VernacularName: "Brown Trout", Status: "introduced, stocked"},
				{Species: "Lepomis macrochirus", VernacularName: "Bluegill", Status: "present in ponds"},
				{Species: "Micropterus salmoides", VernacularName: "Largemouth Bass", Status: "present in ponds"},
			},
			Source: "NC Wildlife Resources Commission, trout stocking records",
		},
		"amphibians": {
			YearRange: yearRange,
			CommonSpecies: []domain.KnownSpecies{
				{Species: "Plethodon jordani", VernacularName: "Jordan's Salamander", Status: "endemic, common"},
				{Species: "Desmognathus quadramaculatus", VernacularName: "Black-bellied Salamander", Status: "common"},
				{Species: "Eurycea wilderae", VernacularName: "Blue Ridge Two-lined Salamander", Status: "common"},
				{Species: "Rana clamitans", VernacularName: "Green Frog", Status: "common"},
				{Species: "Rana catesbeiana", VernacularName: "American Bullfrog", Status: "present"},
				{Species: "Hyla versicolor", VernacularName: "Gray Treefrog", Status: "common"},
			},
			Source: "Historical herpetological surveys, Highlands Biological Station",
		},
	}
}
