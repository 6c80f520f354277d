package artifact

import "fmt"

// Artifact filenames are the interface contract between producer and
// consumer stages. Year-ranged names derive from the configured period;
// the fixed names identify curated inputs with no producer in this
// pipeline.
const (
	SpeciesTraitsFile    = "nc_parks_species.json"
	CoweetaFile          = "coweeta_lter_historical.json"
	SeasonalCalendarFile = "seasonal_calendar.json"
	BaselineFile         = "inaturalist_baseline.json"
)

func ranged(prefix string, startYear, endYear int) string {
	return fmt.Sprintf("%s_%d_%d.json", prefix, startYear, endYear)
}

// WeatherName is the historical-weather artifact for the given period.
func WeatherName(startYear, endYear int) string {
	return ranged("weather", startYear, endYear)
}

// BiodiversityName is the yearly species-lists artifact for the given period.
func BiodiversityName(startYear, endYear int) string {
	return ranged("biodiversity", startYear, endYear)
}

// SpecimensName is the historical-specimens artifact for the given period.
func SpecimensName(startYear, endYear int) string {
	return ranged("gbif_historical", startYear, endYear)
}

// ChestnutName is the chestnut-blight timeline artifact for the given period.
func ChestnutName(startYear, endYear int) string {
	return ranged("chestnut_blight", startYear, endYear)
}

// PesticidesName is the pesticide timeline artifact for the given period.
func PesticidesName(startYear, endYear int) string {
	return ranged("pesticides", startYear, endYear)
}

// FarmName is the curated college-farm artifact for the given period.
func FarmName(startYear, endYear int) string {
	return ranged("bmc_farm", startYear, endYear)
}

// MergedName is the final combined output for the given period.
func MergedName(startYear, endYear int) string {
	return ranged("bmc_ecology", startYear, endYear)
}
