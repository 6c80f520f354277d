package domain

// MonthlyWeather is one month of aggregated daily observations. Aggregates
// are pointers so a month with no usable daily data serializes as null
// rather than a misleading zero.
type MonthlyWeather struct {
	Month        int      `json:"month"`
	TempMaxAvg   *float64 `json:"temp_max_avg"`
	TempMinAvg   *float64 `json:"temp_min_avg"`
	PrecipMM     *float64 `json:"precip_mm"`
	DaysRecorded int      `json:"days_recorded,omitempty"`
	Estimated    bool     `json:"estimated,omitempty"`
}

// WeatherYear is one calendar year of monthly summaries plus annual
// aggregates. Estimated marks years synthesized from decade averages rather
// than observed daily data.
type WeatherYear struct {
	Monthly          []MonthlyWeather `json:"monthly"`
	AnnualAvgTempMax *float64         `json:"annual_avg_temp_max"`
	AnnualAvgTempMin *float64         `json:"annual_avg_temp_min"`
	AnnualAvgTemp    *float64         `json:"annual_avg_temp"`
	TotalPrecipMM    *float64         `json:"total_precip_mm"`
	Estimated        bool             `json:"estimated,omitempty"`
	Source           string           `json:"source"`
}

// WeatherArtifact is the processed historical-weather artifact, keyed by year.
type WeatherArtifact struct {
	Metadata Metadata            `json:"metadata"`
	Years    map[int]WeatherYear `json:"years"`
}
