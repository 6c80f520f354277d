package builder

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// CalendarStage compiles the month-by-month ecological activity calendar.
// Butterfly, moth, and plant calendars come from the curated species-traits
// artifact when it is present; bird and amphibian calendars and the monthly
// event lists are compiled from regional patterns. Every month appears in
// the output whether or not anything is active.
type CalendarStage struct {
	cfg     *config.Config
	store   *artifact.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	runID   string
}

// NewCalendarStage wires the seasonal-calendar compilation stage.
func NewCalendarStage(cfg *config.Config, store *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *CalendarStage {
	return &CalendarStage{cfg: cfg, store: store, logger: logger, metrics: metrics, runID: runID}
}

func (s *CalendarStage) Name() string { return "calendar" }

// Run compiles and writes the seasonal calendar.
func (s *CalendarStage) Run(_ context.Context) error {
	traits, ok, err := artifact.Load[domain.SpeciesTraitsArtifact](s.store, artifact.SpeciesTraitsFile)
	if err != nil {
		s.logger.Warn("species traits artifact unreadable, calendar omits traits-derived entries",
			"name", artifact.SpeciesTraitsFile, "error", err)
	} else if !ok {
		s.logger.Info("species traits artifact absent, calendar omits traits-derived entries",
			"name", artifact.SpeciesTraitsFile)
	}

	butterflies := flightCalendar(traits.Butterflies.Species)
	moths := flightCalendar(traits.Moths.Species)
	plants := bloomCalendar(traits.Plants.Species)
	birds := birdCalendar()
	amphibians := amphibianCalendar()
	events := ecologicalEvents()

	summary := make(map[string]domain.MonthSummary, 12)
	detailed := make(map[string]domain.MonthDetail, 12)
	for m := 1; m <= 12; m++ {
		name := domain.MonthName(m)
		summary[name] = domain.MonthSummary{
			MonthNumber:       m,
			ButterfliesActive: len(butterflies[m]),
			MothsActive:       len(moths[m]),
			PlantsBlooming:    len(plants[m]),
			BirdsPresent:      len(birds[m]),
			AmphibiansActive:  len(amphibians[m]),
			EcologicalEvents:  events[m],
		}
		detailed[name] = domain.MonthDetail{
			MonthNumber:      m,
			Season:           domain.SeasonForMonth(m),
			Butterflies:      butterflies[m],
			Moths:            moths[m],
			PlantsBlooming:   plants[m],
			Birds:            birds[m],
			Amphibians:       amphibians[m],
			EcologicalEvents: events[m],
		}
	}

	art := domain.SeasonalCalendarArtifact{
		Metadata: domain.NewMetadata(
			"Compiled regional sources",
			s.cfg.LocationName,
			s.cfg.Period(),
			s.runID,
			"NC Biodiversity Project",
			"NC Native Plant Society",
			"Coweeta LTER historical data",
			"iNaturalist baseline data",
			"Regional field guides and literature",
		),
		Summary:           summary,
		DetailedCalendars: detailed,
	}

	return writeArtifact(s.store, s.metrics, s.logger, artifact.SeasonalCalendarFile, art)
}

// flightCalendar buckets lepidoptera by their flight months.
func flightCalendar(species []domain.SpeciesTraits) domain.TaxonCalendar {
	cal := domain.NewTaxonCalendar()
	for _, sp := range species {
		for _, m := range sp.FlightMonths {
			if m < 1 || m > 12 {
				continue
			}
			abundance := sp.Abundance
			if abundance == "" {
				abundance = "unknown"
			}
			cal[m] = append(cal[m], domain.SpeciesActivity{
				ScientificName: sp.ScientificName,
				CommonName:     sp.CommonName,
				Family:         sp.Family,
				Abundance:      abundance,
			})
		}
	}
	return cal
}

// bloomCalendar buckets plants by their bloom months.
func bloomCalendar(species []domain.SpeciesTraits) domain.TaxonCalendar {
	cal := domain.NewTaxonCalendar()
	for _, sp := range species {
		for _, m := range sp.BloomMonths {
			if m < 1 || m > 12 {
				continue
			}
			cal[m] = append(cal[m], domain.SpeciesActivity{
				ScientificName: sp.ScientificName,
				CommonName:     sp.CommonName,
				Type:           sp.Type,
				Family:         sp.Family,
				Habitat:        sp.Habitat,
			})
		}
	}
	return cal
}

type birdPattern struct {
	scientificName string
	commonName     string
	status         string
	months         []int
	activity       string
}

var allYear = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// birdCalendar compiles monthly bird presence for the Southern Appalachians:
// year-round residents, winter visitors, summer breeders, and raptors.
func birdCalendar() domain.TaxonCalendar {
	birds := []birdPattern{
		{"Cardinalis cardinalis", "Northern Cardinal", "resident", allYear, "year-round"},
		{"Cyanocitta cristata", "Blue Jay", "resident", allYear, "year-round"},
		{"Poecile carolinensis", "Carolina Chickadee", "resident", allYear, "year-round"},
		{"Sitta carolinensis", "White-breasted Nuthatch", "resident", allYear, "year-round"},
		{"Melanerpes carolinus", "Red-bellied Woodpecker", "resident", allYear, "year-round"},
		{"Dryocopus pileatus", "Pileated Woodpecker", "resident", allYear, "year-round"},
		{"Baeolophus bicolor", "Tufted Titmouse", "resident", allYear, "year-round"},
		{"Corvus brachyrhynchos", "American Crow", "resident", allYear, "year-round"},
		{"Thryothorus ludovicianus", "Carolina Wren", "resident", allYear, "year-round"},
		{"Sialia sialis", "Eastern Bluebird", "resident", allYear, "year-round"},
		{"Pipilo erythrophthalmus", "Eastern Towhee", "resident", allYear, "year-round"},
		{"Zenaida macroura", "Mourning Dove", "resident", allYear, "year-round"},
		{"Mimus polyglottos", "Northern Mockingbird", "resident", allYear, "year-round"},
		{"Bonasa umbellus", "Ruffed Grouse", "resident", allYear, "year-round"},

		{"Junco hyemalis", "Dark-eyed Junco", "winter", []int{10, 11, 12, 1, 2, 3, 4}, "winter visitor"},
		{"Regulus satrapa", "Golden-crowned Kinglet", "winter", []int{10, 11, 12, 1, 2, 3}, "winter visitor"},
		{"Regulus calendula", "Ruby-crowned Kinglet", "winter", []int{10, 11, 12, 1, 2, 3, 4}, "winter visitor"},
		{"Zonotrichia albicollis", "White-throated Sparrow", "winter", []int{10, 11, 12, 1, 2, 3, 4}, "winter visitor"},
		{"Spinus tristis", "American Goldfinch", "resident", allYear, "year-round"},
		{"Bombycilla cedrorum", "Cedar Waxwing", "winter", []int{11, 12, 1, 2, 3, 4, 5}, "winter-spring visitor"},

		{"Piranga olivacea", "Scarlet Tanager", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Piranga rubra", "Summer Tanager", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Hylocichla mustelina", "Wood Thrush", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Catharus fuscescens", "Veery", "summer", []int{5, 6, 7, 8}, "breeding"},
		{"Seiurus aurocapilla", "Ovenbird", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Mniotilta varia", "Black-and-white Warbler", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Setophaga cerulea", "Cerulean Warbler", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Setophaga virens", "Black-throated Green Warbler", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Setophaga citrina", "Hooded Warbler", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Geothlypis formosa", "Kentucky Warbler", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Helmitheros vermivorum", "Worm-eating Warbler", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Parkesia motacilla", "Louisiana Waterthrush", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Vireo olivaceus", "Red-eyed Vireo", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Vireo griseus", "White-eyed Vireo", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Contopus virens", "Eastern Wood-Pewee", "summer", []int{5, 6, 7, 8, 9}, "breeding"},
		{"Myiarchus crinitus", "Great Crested Flycatcher", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Sayornis phoebe", "Eastern Phoebe", "summer", []int{3, 4, 5, 6, 7, 8, 9, 10}, "breeding"},
		{"Progne subis", "Purple Martin", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Hirundo rustica", "Barn Swallow", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Setophaga americana", "Northern Parula", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Icterus galbula", "Baltimore Oriole", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Archilochus colubris", "Ruby-throated Hummingbird", "summer", []int{4, 5, 6, 7, 8, 9}, "breeding"},
		{"Coccyzus americanus", "Yellow-billed Cuckoo", "summer", []int{5, 6, 7, 8, 9}, "breeding"},
		{"Antrostomus vociferus", "Eastern Whip-poor-will", "summer", []int{4, 5, 6, 7, 8}, "breeding"},
		{"Chordeiles minor", "Common Nighthawk", "summer", []int{5, 6, 7, 8, 9}, "breeding"},

		{"Buteo jamaicensis", "Red-tailed Hawk", "resident", allYear, "year-round"},
		{"Buteo lineatus", "Red-shouldered Hawk", "resident", allYear, "year-round"},
		{"Accipiter cooperii", "Cooper's Hawk", "resident", allYear, "year-round"},
		{"Haliaeetus leucocephalus", "Bald Eagle", "rare", []int{11, 12, 1, 2, 3}, "winter visitor"},
		{"Megascops asio", "Eastern Screech-Owl", "resident", allYear, "year-round"},
		{"Bubo virginianus", "Great Horned Owl", "resident", allYear, "year-round"},
		{"Strix varia", "Barred Owl", "resident", allYear, "year-round"},
		{"Cathartes aura", "Turkey Vulture", "resident", []int{3, 4, 5, 6, 7, 8, 9, 10, 11}, "mostly year-round"},
	}

	cal := domain.NewTaxonCalendar()
	for _, b := range birds {
		for _, m := range b.months {
			cal[m] = append(cal[m], domain.SpeciesActivity{
				ScientificName: b.scientificName,
				CommonName:     b.commonName,
				Status:         b.status,
				Activity:       b.activity,
			})
		}
	}
	return cal
}

type amphibianPattern struct {
	scientificName string
	commonName     string
	months         []int
	activity       string
}

// amphibianCalendar compiles monthly amphibian activity: explosive early
// breeders, summer pond frogs, and the year-round plethodontid salamanders
// the region is known for.
func amphibianCalendar() domain.TaxonCalendar {
	amphibians := []amphibianPattern{
		{"Anaxyrus americanus", "American Toad", []int{3, 4, 5, 6, 7, 8, 9}, "breeding Mar-Jun"},
		{"Pseudacris crucifer", "Spring Peeper", []int{2, 3, 4, 5}, "breeding Feb-Apr"},
		{"Hyla chrysoscelis", "Cope's Gray Treefrog", []int{4, 5, 6, 7, 8}, "breeding May-Aug"},
		{"Rana clamitans", "Green Frog", []int{4, 5, 6, 7, 8, 9}, "breeding May-Aug"},
		{"Rana sylvatica", "Wood Frog", []int{2, 3, 4}, "early breeder Feb-Mar"},
		{"Lithobates catesbeianus", "American Bullfrog", []int{5, 6, 7, 8, 9}, "breeding May-Aug"},
		{"Notophthalmus viridescens", "Eastern Newt", allYear, "year-round active"},
		{"Plethodon jordani", "Jordan's Salamander", allYear, "year-round, Appalachian endemic"},
		{"Desmognathus quadramaculatus", "Black-bellied Salamander", allYear, "year-round in streams"},
		{"Eurycea wilderae", "Blue Ridge Two-lined Salamander", allYear, "year-round"},
		{"Pseudotriton ruber", "Red Salamander", allYear, "year-round"},
		{"Ambystoma maculatum", "Spotted Salamander", []int{2, 3, 4}, "breeding Feb-Apr"},
		{"Plethodon glutinosus", "Northern Slimy Salamander", []int{3, 4, 5, 6, 7, 8, 9, 10}, "active spring-fall"},
	}

	cal := domain.NewTaxonCalendar()
	for _, a := range amphibians {
		for _, m := range a.months {
			cal[m] = append(cal[m], domain.SpeciesActivity{
				ScientificName: a.scientificName,
				CommonName:     a.commonName,
				Activity:       a.activity,
			})
		}
	}
	return cal
}

// ecologicalEvents lists the general ecological happenings of each month in
// the Southern Blue Ridge.
func ecologicalEvents() map[int][]string {
	return map[int][]string{
		1: {
			"Coldest month - average low 20°F (-7°C)",
			"Winter residents active (juncos, kinglets)",
			"Owls begin courtship",
			"Earliest skunk cabbage blooms",
		},
		2: {
			"Maple sap begins to run",
			"First spring peepers may call on warm nights",
			"Wood frogs begin breeding",
			"Spotted salamander migration begins",
			"Red-winged blackbirds return",
		},
		3: {
			"Spring ephemerals emerge (bloodroot, hepatica)",
			"Amphibian breeding peaks",
			"First butterflies emerge (Mourning Cloak)",
			"Tree sap flowing",
			"Early migratory birds arrive",
			"American woodcock courtship",
		},
		4: {
			"Peak spring ephemeral bloom",
			"Trilliums, violets, trout lilies flowering",
			"Dogwood and redbud blooming",
			"Major bird migration underway",
			"Ruby-throated hummingbirds arrive",
			"Luna moths begin to emerge",
			"Canopy leaf-out begins",
		},
		5: {
			"Full canopy leaf-out",
			"Mountain laurel and rhododendron blooming",
			"Peak warbler migration",
			"Most butterflies now active",
			"Luna moths peak",
			"Bird nesting season begins",
			"Black locust blooming",
		},
		6: {
			"Full summer conditions",
			"Bird breeding season peaks",
			"Sourwood blooming (important honey source)",
			"Peak insect diversity",
			"Fireflies active",
			"Wild blackberries ripening",
			"Lake Eden swimming season",
		},
		7: {
			"Hot and humid",
			"Bee balm and other summer wildflowers peak",
			"Fledgling birds visible",
			"Cicadas calling",
			"Early fall migration begins (shorebirds)",
			"Joe Pye weed and ironweed blooming",
		},
		8: {
			"Late summer wildflowers peak",
			"Cardinal flower blooming",
			"Fall migration building",
			"Wild grapes ripening",
			"Goldenrod begins blooming",
			"Hummingbird numbers peak before migration",
		},
		9: {
			"Fall migration peak for songbirds",
			"Goldenrod and aster bloom",
			"Fall colors begin at highest elevations",
			"Monarch butterfly migration",
			"Acorn and hickory nut production",
			"First frosts possible at high elevations",
		},
		10: {
			"Peak fall foliage mid-month",
			"Heavy bird migration",
			"Winter residents arrive (juncos)",
			"First hard frosts typical",
			"Witch hazel blooming",
			"Deer rut begins",
			"Bear hyperphagic foraging",
		},
		11: {
			"Late fall colors",
			"Most deciduous leaves fallen",
			"Winter bird flocks forming",
			"Deer rut peaks",
			"Late migrant birds passing through",
			"First snow possible",
		},
		12: {
			"Winter conditions",
			"Christmas ferns remain green",
			"Winter bird watching",
			"Bears entering torpor",
			"Shortest days of year",
			"Some birds begin winter territory singing",
		},
	}
}
