// Command validate performs integrity checks across the processed and
// merged artifacts: it re-derives the compiled timelines and compares them
// with what was written, checks the weather artifact's internal
// consistency, and verifies the merged dataset against its inputs.
//
// Usage:
//
//	go run ./cmd/validate -processed-dir data/processed -output-dir output
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/builder"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	processedDir := flag.String("processed-dir", "data/processed", "directory containing processed artifacts")
	outputDir := flag.String("output-dir", "output", "directory containing the merged dataset")
	startYear := flag.Int("start-year", 1933, "first year of the study period")
	endYear := flag.Int("end-year", 1957, "last year of the study period")
	flag.Parse()

	if code := run(*processedDir, *outputDir, *startYear, *endYear); code != 0 {
		os.Exit(code)
	}
}

func run(processedDir, outputDir string, startYear, endYear int) int {
	fmt.Println("=== Ecology Artifact Integrity Validation ===")
	fmt.Println()

	processed := artifact.NewStore(processedDir)
	output := artifact.NewStore(outputDir)

	chestnut, haveChestnut := load[domain.ChestnutArtifact](processed, artifact.ChestnutName(startYear, endYear))
	pesticides, havePesticides := load[domain.PesticideArtifact](processed, artifact.PesticidesName(startYear, endYear))
	weather, haveWeather := load[domain.WeatherArtifact](processed, artifact.WeatherName(startYear, endYear))
	merged, haveMerged := load[domain.MergedDataset](output, artifact.MergedName(startYear, endYear))

	phases := []*phase{
		validateChestnut(chestnut, haveChestnut, startYear, endYear),
		validatePesticides(pesticides, havePesticides, startYear, endYear),
		validateWeather(weather, haveWeather, startYear, endYear),
		validateMerged(merged, haveMerged, chestnut, haveChestnut, pesticides, havePesticides, startYear, endYear),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load[T any](store *artifact.Store, name string) (T, bool) {
	v, ok, err := artifact.Load[T](store, name)
	if err != nil {
		fmt.Printf("  Note: %s unreadable: %v\n", name, err)
		return v, false
	}
	if !ok {
		fmt.Printf("  Note: %s not found, skipping its checks\n", name)
	}
	return v, ok
}

// ── Phase 1: Chestnut Timeline ──
// Re-derives the yearly blight status and compares with the artifact.

func validateChestnut(art domain.ChestnutArtifact, have bool, startYear, endYear int) *phase {
	p := &phase{name: "Phase 1: Chestnut Timeline (re-derivation)"}
	if !have {
		return p
	}

	if got, want := len(art.YearlyStatus), endYear-startYear+1; got != want {
		p.errorf("yearly_status has %d entries, expected %d", got, want)
	}

	prevSurvival := math.MaxInt
	for year := startYear; year <= endYear; year++ {
		got, ok := art.YearlyStatus[year]
		if !ok {
			p.errorf("year %d missing from yearly_status", year)
			continue
		}
		want := builder.ChestnutStatusForYear(year)
		if !reflect.DeepEqual(got, want) {
			p.errorf("year %d: artifact %+v, derived %+v", year, got, want)
		}
		if got.EstimatedSurvivalPercent > prevSurvival {
			p.errorf("year %d: survival %d%% rose from %d%%", year, got.EstimatedSurvivalPercent, prevSurvival)
		}
		prevSurvival = got.EstimatedSurvivalPercent
	}

	for i := 1; i < len(art.MajorEvents); i++ {
		if art.MajorEvents[i].Year < art.MajorEvents[i-1].Year {
			p.errorf("major_events out of order at index %d", i)
		}
	}
	return p
}

// ── Phase 2: Pesticide Timeline ──

func validatePesticides(art domain.PesticideArtifact, have bool, startYear, endYear int) *phase {
	p := &phase{name: "Phase 2: Pesticide Timeline (re-derivation)"}
	if !have {
		return p
	}

	if got, want := len(art.YearlyData), endYear-startYear+1; got != want {
		p.errorf("yearly_data has %d entries, expected %d", got, want)
	}

	for year := startYear; year <= endYear; year++ {
		got, ok := art.YearlyData[year]
		if !ok {
			p.errorf("year %d missing from yearly_data", year)
			continue
		}
		want := builder.PesticideDataForYear(year)
		if !reflect.DeepEqual(got, want) {
			p.errorf("year %d: artifact %+v, derived %+v", year, got, want)
		}
		if got.DDTAgriculturalUse && !got.DDTAvailable {
			p.errorf("year %d: agricultural DDT use without DDT availability", year)
		}
	}
	return p
}

// ── Phase 3: Weather Consistency ──
// Checks period coverage, month ordering, and annual aggregate arithmetic.

func validateWeather(art domain.WeatherArtifact, have bool, startYear, endYear int) *phase {
	p := &phase{name: "Phase 3: Weather Consistency (aggregates)"}
	if !have {
		return p
	}

	for year := startYear; year <= endYear; year++ {
		wy, ok := art.Years[year]
		if !ok {
			p.errorf("year %d missing", year)
			continue
		}
		checkWeatherYear(p, year, wy)
	}
	return p
}

func checkWeatherYear(p *phase, year int, wy domain.WeatherYear) {
	if wy.Estimated && year >= 1940 {
		p.errorf("year %d: marked estimated but inside the observed archive range", year)
	}
	if wy.Source == "" {
		p.errorf("year %d: source is empty", year)
	}

	prevMonth := 0
	for _, m := range wy.Monthly {
		if m.Month < 1 || m.Month > 12 {
			p.errorf("year %d: month %d out of range", year, m.Month)
		}
		if m.Month <= prevMonth {
			p.errorf("year %d: months not strictly ascending at %d", year, m.Month)
		}
		prevMonth = m.Month
		if wy.Estimated && !m.Estimated {
			p.errorf("year %d month %d: estimated year carries an observed month", year, m.Month)
		}
	}

	// annual_avg_temp is the rounded midpoint of the annual max and min.
	if wy.AnnualAvgTempMax != nil && wy.AnnualAvgTempMin != nil {
		if wy.AnnualAvgTemp == nil {
			p.errorf("year %d: annual_avg_temp missing despite max and min", year)
		} else {
			want := math.Round((*wy.AnnualAvgTempMax+*wy.AnnualAvgTempMin)/2*10) / 10
			if math.Abs(*wy.AnnualAvgTemp-want) > 1e-9 {
				p.errorf("year %d: annual_avg_temp %.1f, expected %.1f", year, *wy.AnnualAvgTemp, want)
			}
		}
	}
}

// ── Phase 4: Merged Dataset ──
// Verifies the merged output against the artifacts it was built from.

func validateMerged(merged domain.MergedDataset, haveMerged bool,
	chestnut domain.ChestnutArtifact, haveChestnut bool,
	pesticides domain.PesticideArtifact, havePesticides bool,
	startYear, endYear int) *phase {
	p := &phase{name: "Phase 4: Merged Dataset (cross-reference)"}
	if !haveMerged {
		return p
	}

	if got, want := len(merged.YearlyData), endYear-startYear+1; got != want {
		p.errorf("yearly_data has %d entries, expected %d", got, want)
	}
	for i, y := range merged.YearlyData {
		if want := startYear + i; y.Year != want {
			p.errorf("yearly_data[%d] is year %d, expected %d", i, y.Year, want)
		}
		checkMergedYear(p, y, chestnut, haveChestnut, pesticides, havePesticides)
	}

	if !sort.SliceIsSorted(merged.EcologicalContext.MajorEvents, func(i, j int) bool {
		return merged.EcologicalContext.MajorEvents[i].Year < merged.EcologicalContext.MajorEvents[j].Year
	}) {
		p.errorf("ecological_context.major_events not sorted by year")
	}
	for _, e := range merged.EcologicalContext.MajorEvents {
		if e.Year < startYear || e.Year > endYear {
			p.errorf("major event %q in %d is outside the period", e.Event, e.Year)
		}
	}
	return p
}

func checkMergedYear(p *phase, y domain.MergedYear,
	chestnut domain.ChestnutArtifact, haveChestnut bool,
	pesticides domain.PesticideArtifact, havePesticides bool) {
	if len(y.Fauna.Birds) > 20 || len(y.Fauna.Mammals) > 20 || len(y.Fauna.Fish) > 20 || len(y.Fauna.Amphibians) > 20 {
		p.errorf("year %d: a fauna list exceeds 20 entries", y.Year)
	}
	if len(y.Flora.NotablePlants) > 30 {
		p.errorf("year %d: notable_plants has %d entries, cap is 30", y.Year, len(y.Flora.NotablePlants))
	}

	if havePesticides {
		if src, ok := pesticides.YearlyData[y.Year]; ok {
			if y.Pesticides.DDTAvailable != src.DDTAvailable {
				p.errorf("year %d: merged ddt_available %v, artifact %v", y.Year, y.Pesticides.DDTAvailable, src.DDTAvailable)
			}
			if y.Pesticides.EstimatedRegionalUsage != src.EstimatedRegionalUsage {
				p.errorf("year %d: merged usage %q, artifact %q", y.Year, y.Pesticides.EstimatedRegionalUsage, src.EstimatedRegionalUsage)
			}
		}
	}

	if haveChestnut {
		if src, ok := chestnut.YearlyStatus[y.Year]; ok {
			found := false
			for _, e := range y.EcologicalEvents {
				if e.Type != "chestnut_blight" {
					continue
				}
				found = true
				if e.Status != src.MatureTreeStatus || e.SurvivalPercent != src.EstimatedSurvivalPercent {
					p.errorf("year %d: merged chestnut event %s/%d%%, artifact %s/%d%%",
						y.Year, e.Status, e.SurvivalPercent, src.MatureTreeStatus, src.EstimatedSurvivalPercent)
				}
			}
			if !found {
				p.errorf("year %d: chestnut status in artifact but no merged ecological event", y.Year)
			}
		}
	}
}
