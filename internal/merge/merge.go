// Package merge assembles the final combined dataset from whatever
// processed artifacts exist. Every artifact is optional; a year with no
// backing data still gets an entry with documented defaults.
package merge

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

// MergeStage reads the processed artifacts and writes the combined dataset
// to the output store.
type MergeStage struct {
	cfg       *config.Config
	processed *artifact.Store
	output    *artifact.Store
	logger    *slog.Logger
	metrics   *observability.Metrics
	runID     string
}

// NewMergeStage wires the merge stage. The processed store is where the
// fetch and builder stages wrote their artifacts; the output store receives
// the final dataset.
func NewMergeStage(cfg *config.Config, processed, output *artifact.Store, logger *slog.Logger, metrics *observability.Metrics, runID string) *MergeStage {
	return &MergeStage{cfg: cfg, processed: processed, output: output, logger: logger, metrics: metrics, runID: runID}
}

func (s *MergeStage) Name() string { return "merge" }

// Run loads every available artifact, assembles the combined dataset, and
// writes it. Only an unwritable output is an error; missing or unreadable
// inputs degrade the result.
func (s *MergeStage) Run(_ context.Context) error {
	weather, haveWeather := loadOptional[domain.WeatherArtifact](s, artifact.WeatherName(s.cfg.StartYear, s.cfg.EndYear))
	bio, haveBio := loadOptional[domain.BiodiversityArtifact](s, artifact.BiodiversityName(s.cfg.StartYear, s.cfg.EndYear))
	pesticides, havePesticides := loadOptional[domain.PesticideArtifact](s, artifact.PesticidesName(s.cfg.StartYear, s.cfg.EndYear))
	chestnut, haveChestnut := loadOptional[domain.ChestnutArtifact](s, artifact.ChestnutName(s.cfg.StartYear, s.cfg.EndYear))
	farm, haveFarm := loadOptional[domain.FarmArtifact](s, artifact.FarmName(s.cfg.StartYear, s.cfg.EndYear))
	traits, haveTraits := loadOptional[domain.SpeciesTraitsArtifact](s, artifact.SpeciesTraitsFile)
	coweeta, haveCoweeta := loadOptional[domain.CoweetaArtifact](s, artifact.CoweetaFile)
	calendar, haveCalendar := loadOptional[domain.SeasonalCalendarArtifact](s, artifact.SeasonalCalendarFile)
	baseline, haveBaseline := loadOptional[domain.BaselineArtifact](s, artifact.BaselineFile)
	specimens, haveSpecimens := loadOptional[domain.SpecimensArtifact](s, artifact.SpecimensName(s.cfg.StartYear, s.cfg.EndYear))

	dataset := domain.MergedDataset{
		Metadata:          s.metadata(),
		EcologicalContext: s.ecologicalContext(),
	}

	if haveChestnut {
		for _, e := range chestnut.MajorEvents {
			if e.Year < s.cfg.StartYear || e.Year > s.cfg.EndYear {
				continue
			}
			dataset.EcologicalContext.MajorEvents = append(dataset.EcologicalContext.MajorEvents, domain.MajorEvent{
				Year: e.Year, Type: "chestnut_blight", Event: e.Event, Description: e.Description,
			})
		}
	}
	if havePesticides {
		for _, e := range pesticides.MajorEvents {
			if e.Year < s.cfg.StartYear || e.Year > s.cfg.EndYear {
				continue
			}
			dataset.EcologicalContext.MajorEvents = append(dataset.EcologicalContext.MajorEvents, domain.MajorEvent{
				Year: e.Year, Type: "pesticide", Event: e.Event, Description: e.Description,
			})
		}
	}
	if haveFarm {
		for _, e := range farm.MajorEvents {
			if e.Year < s.cfg.StartYear || e.Year > s.cfg.EndYear {
				continue
			}
			dataset.EcologicalContext.MajorEvents = append(dataset.EcologicalContext.MajorEvents, domain.MajorEvent{
				Year: e.Year, Type: "farm", Event: e.Event, Description: e.Description, KeyPeople: e.KeyPeople,
			})
		}
	}
	sort.SliceStable(dataset.EcologicalContext.MajorEvents, func(i, j int) bool {
		return dataset.EcologicalContext.MajorEvents[i].Year < dataset.EcologicalContext.MajorEvents[j].Year
	})

	for _, year := range s.cfg.Years() {
		yearly := emptyYear(year)

		if haveWeather {
			if wy, ok := weather.Years[year]; ok {
				yearly.Weather = &wy
			}
		}
		if haveBio {
			fillBiodiversity(&yearly, bio, year)
		}
		if havePesticides {
			if p, ok := pesticides.YearlyData[year]; ok {
				yearly.Pesticides = domain.YearPesticides{
					DDTAvailable:           p.DDTAvailable,
					DDTAgriculturalUse:     p.DDTAgriculturalUse,
					CommonPesticides:       p.CommonPesticides,
					EstimatedRegionalUsage: p.EstimatedRegionalUsage,
					Notes:                  p.Notes,
				}
			}
		}
		if haveChestnut {
			if c, ok := chestnut.YearlyStatus[year]; ok {
				yearly.EcologicalEvents = append(yearly.EcologicalEvents, domain.YearEcologicalEvent{
					Type:            "chestnut_blight",
					Species:         "Castanea dentata",
					Status:          c.MatureTreeStatus,
					SurvivalPercent: c.EstimatedSurvivalPercent,
					Notes:           c.Notes,
				})
			}
		}
		if haveFarm {
			if f, ok := farm.YearlyStatus[year]; ok {
				yearly.Farm = f
			}
		}

		dataset.YearlyData = append(dataset.YearlyData, yearly)
	}

	if haveFarm {
		dataset.FarmReference = &domain.FarmReference{
			Livestock:        farm.Livestock,
			Crops:            farm.Crops,
			Buildings:        farm.Buildings,
			Equipment:        farm.Equipment,
			KeyPeople:        farm.KeyPeople,
			Programs:         farm.Programs,
			OrganicPractices: farm.OrganicPractices,
		}
	}
	if haveTraits {
		dataset.SpeciesReference = &domain.SpeciesReference{
			Moths:        traits.Moths,
			Butterflies:  traits.Butterflies,
			NativePlants: traits.Plants,
		}
	}
	if haveCoweeta {
		dataset.CoweetaBaseline = &domain.CoweetaBaseline{
			ForestComposition:  coweeta.ForestComposition,
			BlightTimeline:     coweeta.BlightTimeline,
			HistoricalWildlife: coweeta.WildlifeRecords,
			EraBaseline:        coweeta.EraBaseline,
		}
	}
	if haveCalendar {
		dataset.SeasonalCalendar = &domain.CalendarReference{
			Summary:           calendar.Summary,
			DetailedCalendars: calendar.DetailedCalendars,
		}
	}
	if haveBaseline {
		dataset.ModernSpeciesBaseline = &domain.BaselineReference{
			Summary:          baseline.Summary,
			BaselineSpecies:  baseline.BaselineSpecies,
			SeasonalPatterns: baseline.SeasonalPatterns,
		}
	}
	if haveSpecimens {
		dataset.HistoricalSpecimens = &domain.SpecimensReference{
			Summary:        specimens.Summary,
			SpeciesByTaxon: specimens.SpeciesByTaxon,
		}
	}

	name := artifact.MergedName(s.cfg.StartYear, s.cfg.EndYear)
	n, err := s.output.Write(name, dataset)
	if err != nil {
		return err
	}
	s.metrics.ArtifactsWritten.Inc()
	s.metrics.ArtifactBytes.Observe(float64(n))
	s.logger.Info("merged dataset written",
		"name", name,
		"bytes", n,
		"years", len(dataset.YearlyData),
		"major_events", len(dataset.EcologicalContext.MajorEvents))
	return nil
}

// loadOptional loads one artifact from the processed store. A missing file
// is silent; an unreadable one is logged and treated as absent.
func loadOptional[T any](s *MergeStage, name string) (T, bool) {
	v, ok, err := artifact.Load[T](s.processed, name)
	if err != nil {
		s.logger.Warn("artifact unreadable, merging without it", "name", name, "error", err)
		var zero T
		return zero, false
	}
	return v, ok
}

func (s *MergeStage) metadata() domain.MergedMetadata {
	return domain.MergedMetadata{
		Title:       fmt.Sprintf("Black Mountain College Ecological Data (%s)", s.cfg.Period()),
		Location:    s.cfg.LocationName,
		Coordinates: [2]float64{s.cfg.Latitude, s.cfg.Longitude},
		ElevationM:  s.cfg.ElevationM,
		Period:      s.cfg.Period(),
		Generated:   time.Now().UTC(),
		RunID:       s.runID,
		Sources: []string{
			"Open-Meteo Historical Weather API",
			"GBIF (Global Biodiversity Information Facility)",
			"iNaturalist Species Baseline",
			"NC Biodiversity Project",
			"NC Native Plant Society",
			"Coweeta Long-Term Ecological Research (LTER)",
			"US Forest Service Historical Records",
			"EPA Historical Documents",
			"USDA Agricultural Statistics",
			"American Chestnut Foundation",
			"NC Wildlife Resources Commission",
			"NC Natural Heritage Program",
			"David Silver, 'The Farm at Black Mountain College' (2024)",
			"Western Regional Archives, Asheville, NC",
			"Black Mountain College Museum + Arts Center",
		},
		Notes: []string{
			"Weather data 1933-1939 is estimated from 1940-1949 averages",
			"GBIF biodiversity data is supplemented with historical records",
			"Chestnut blight was the major ecological event of this period",
		},
	}
}

func (s *MergeStage) ecologicalContext() domain.EcologicalContext {
	return domain.EcologicalContext{
		Region:      "Southern Blue Ridge Mountains",
		Ecoregion:   "Southern Appalachian",
		ForestType:  "Mixed Mesophytic / Appalachian Oak Forest",
		Climate:     "Humid subtropical highland (Cfb)",
		MajorEvents: []domain.MajorEvent{},
	}
}

// emptyYear is the documented default record for a year with no data.
func emptyYear(year int) domain.MergedYear {
	return domain.MergedYear{
		Year: year,
		Flora: domain.YearFlora{
			Trees:         []domain.SpeciesEntry{},
			NotablePlants: []domain.SpeciesEntry{},
		},
		Fauna: domain.YearFauna{
			Birds:      []domain.SpeciesEntry{},
			Mammals:    []domain.SpeciesEntry{},
			Fish:       []domain.SpeciesEntry{},
			Amphibians: []domain.SpeciesEntry{},
		},
		Pesticides: domain.YearPesticides{
			CommonPesticides: []string{},
		},
		EcologicalEvents: []domain.YearEcologicalEvent{},
	}
}

const (
	faunaPerTaxon = 20
	plantsPerYear = 30
)

// fillBiodiversity populates a year's flora and fauna from the fetched
// species lists, falling back to documented historical species for any
// fauna taxon with no records that year. Trees always come from the
// documented plant list.
func fillBiodiversity(yearly *domain.MergedYear, bio domain.BiodiversityArtifact, year int) {
	taxa := map[string]*[]domain.SpeciesEntry{
		"birds":      &yearly.Fauna.Birds,
		"mammals":    &yearly.Fauna.Mammals,
		"fish":       &yearly.Fauna.Fish,
		"amphibians": &yearly.Fauna.Amphibians,
	}
	for taxon, dst := range taxa {
		if ys, ok := bio.GBIFRecords[taxon][year]; ok {
			*dst = topSpecies(ys.Species, faunaPerTaxon)
		}
		if len(*dst) == 0 {
			if known, ok := bio.KnownSpecies[taxon]; ok {
				*dst = knownEntries(known.CommonSpecies)
			}
		}
	}

	if ys, ok := bio.GBIFRecords["plants"][year]; ok {
		yearly.Flora.NotablePlants = topSpecies(ys.Species, plantsPerYear)
	}
	if known, ok := bio.KnownSpecies["plants"]; ok {
		yearly.Flora.Trees = knownEntries(known.CommonSpecies)
	}
}

func topSpecies(species []domain.SpeciesCount, limit int) []domain.SpeciesEntry {
	if len(species) > limit {
		species = species[:limit]
	}
	out := make([]domain.SpeciesEntry, 0, len(species))
	for _, sp := range species {
		out = append(out, domain.FromSpeciesCount(sp))
	}
	return out
}

func knownEntries(species []domain.KnownSpecies) []domain.SpeciesEntry {
	out := make([]domain.SpeciesEntry, 0, len(species))
	for _, sp := range species {
		out = append(out, domain.FromKnownSpecies(sp))
	}
	return out
}
