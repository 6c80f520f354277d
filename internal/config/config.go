package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// BoundingBox is a rectangular lat/lon region used to filter occurrence
// queries. The default covers the broader Black Mountain study region.
type BoundingBox struct {
	LatMin float64 `env:"ECOLOGY_BBOX_LAT_MIN" env-default:"35.0"`
	LatMax float64 `env:"ECOLOGY_BBOX_LAT_MAX" env-default:"36.0"`
	LonMin float64 `env:"ECOLOGY_BBOX_LON_MIN" env-default:"-83.0"`
	LonMax float64 `env:"ECOLOGY_BBOX_LON_MAX" env-default:"-82.0"`
}

// Config holds all pipeline settings, populated from environment variables.
// The defaults describe the Black Mountain College study region and period.
// Every component receives the loaded value; nothing reads the environment
// after Load returns.
type Config struct {
	LocationName string  `env:"ECOLOGY_LOCATION_NAME" env-default:"Black Mountain, NC"`
	Latitude     float64 `env:"ECOLOGY_LATITUDE" env-default:"35.5951"`
	Longitude    float64 `env:"ECOLOGY_LONGITUDE" env-default:"-82.5515"`
	ElevationM   int     `env:"ECOLOGY_ELEVATION_M" env-default:"670"`

	County        string `env:"ECOLOGY_COUNTY" env-default:"Buncombe"`
	StateProvince string `env:"ECOLOGY_STATE" env-default:"North Carolina"`

	StartYear int `env:"ECOLOGY_START_YEAR" env-default:"1933"`
	EndYear   int `env:"ECOLOGY_END_YEAR" env-default:"1957"`

	BBox BoundingBox

	RawDataDir       string `env:"ECOLOGY_RAW_DATA_DIR" env-default:"data/raw"`
	ProcessedDataDir string `env:"ECOLOGY_PROCESSED_DATA_DIR" env-default:"data/processed"`
	OutputDir        string `env:"ECOLOGY_OUTPUT_DIR" env-default:"output"`

	// GBIF caps pages at 300 records; iNaturalist species_counts at 500.
	GBIFPageSize int `env:"ECOLOGY_GBIF_PAGE_SIZE" env-default:"300"`
	INatPageSize int `env:"ECOLOGY_INAT_PAGE_SIZE" env-default:"500"`

	// Courtesy delay between consecutive page requests to one source.
	// iNaturalist enforces 60 requests/minute, hence the longer delay.
	CourtesyDelay     time.Duration `env:"ECOLOGY_COURTESY_DELAY" env-default:"500ms"`
	INatCourtesyDelay time.Duration `env:"ECOLOGY_INAT_COURTESY_DELAY" env-default:"1100ms"`

	SourceTimeout time.Duration `env:"ECOLOGY_SOURCE_TIMEOUT" env-default:"60s"`

	HTTPAddr        string        `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat       string        `env:"LOG_FORMAT" env-default:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	// Optional occurrence publishing. Disabled unless brokers are set.
	KafkaBrokers []string `env:"ECOLOGY_KAFKA_BROKERS" env-separator:","`
	KafkaTopic   string   `env:"ECOLOGY_KAFKA_TOPIC" env-default:"ecology-occurrences"`
}

// Load reads configuration from the environment (and a .env file when one is
// present), applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.StartYear > c.EndYear {
		return fmt.Errorf("ECOLOGY_START_YEAR %d is after ECOLOGY_END_YEAR %d", c.StartYear, c.EndYear)
	}
	if c.BBox.LatMin >= c.BBox.LatMax {
		return errors.New("bounding box latitude range is empty")
	}
	if c.BBox.LonMin >= c.BBox.LonMax {
		return errors.New("bounding box longitude range is empty")
	}
	if c.GBIFPageSize <= 0 || c.INatPageSize <= 0 {
		return errors.New("page sizes must be positive")
	}
	if c.CourtesyDelay < 0 || c.INatCourtesyDelay < 0 {
		return errors.New("courtesy delays must not be negative")
	}
	if c.ProcessedDataDir == "" || c.OutputDir == "" {
		return errors.New("data directories must be set")
	}
	return nil
}

// KafkaEnabled reports whether occurrence publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Years returns every year in the configured range, inclusive and ascending.
func (c *Config) Years() []int {
	years := make([]int, 0, c.EndYear-c.StartYear+1)
	for y := c.StartYear; y <= c.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

// Period formats the configured range as "1933-1957".
func (c *Config) Period() string {
	return fmt.Sprintf("%d-%d", c.StartYear, c.EndYear)
}
