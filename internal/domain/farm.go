package domain

import "encoding/json"

// FarmEvent is one dated entry from the college farm's history.
type FarmEvent struct {
	Year        int      `json:"year"`
	Event       string   `json:"event"`
	Description string   `json:"description"`
	KeyPeople   []string `json:"key_people,omitempty"`
}

// FarmArtifact is the college farm history. It has no producer in this
// pipeline; when the curated file exists on disk its events and yearly
// status feed the merge, and the reference blocks are carried through
// verbatim.
type FarmArtifact struct {
	Metadata         Metadata                `json:"metadata"`
	MajorEvents      []FarmEvent             `json:"major_events"`
	YearlyStatus     map[int]json.RawMessage `json:"yearly_status"`
	Livestock        json.RawMessage         `json:"livestock,omitempty"`
	Crops            json.RawMessage         `json:"crops,omitempty"`
	Buildings        json.RawMessage         `json:"buildings,omitempty"`
	Equipment        json.RawMessage         `json:"equipment,omitempty"`
	KeyPeople        json.RawMessage         `json:"key_people,omitempty"`
	Programs         json.RawMessage         `json:"programs,omitempty"`
	OrganicPractices json.RawMessage         `json:"organic_practices,omitempty"`
}
