package domain

import "time"

// Metadata is the fixed block at the top of every processed artifact.
type Metadata struct {
	Source      string    `json:"source"`
	API         string    `json:"api,omitempty"`
	Location    string    `json:"location"`
	Period      string    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id,omitempty"`
	Notes       []string  `json:"notes,omitempty"`
}

// NewMetadata stamps an artifact metadata block with the package clock.
func NewMetadata(source, location, period, runID string, notes ...string) Metadata {
	return Metadata{
		Source:      source,
		Location:    location,
		Period:      period,
		GeneratedAt: clock.Now().UTC(),
		RunID:       runID,
		Notes:       notes,
	}
}
