package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewMetadataUsesInjectedClock(t *testing.T) {
	frozen := time.Date(1957, time.March, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	md := NewMetadata("GBIF API", "Black Mountain, NC", "1933-1957", "run-7", "a note")

	assert.Equal(t, frozen.UTC(), md.GeneratedAt)
	assert.Equal(t, "GBIF API", md.Source)
	assert.Equal(t, "Black Mountain, NC", md.Location)
	assert.Equal(t, "1933-1957", md.Period)
	assert.Equal(t, "run-7", md.RunID)
	assert.Equal(t, []string{"a note"}, md.Notes)
}

func TestSetClockNilRestoresRealTime(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)))
	SetClock(nil)

	md := NewMetadata("src", "loc", "1933-1957", "")
	assert.WithinDuration(t, time.Now().UTC(), md.GeneratedAt, time.Minute)
}
