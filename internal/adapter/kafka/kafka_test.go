package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	fetchedAt := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	occ := domain.Occurrence{
		SourceKey:      891234567,
		Species:        "Actias luna",
		ScientificName: "Actias luna (Linnaeus, 1758)",
		Year:           1947,
		TaxonGroup:     "Lepidoptera",
	}

	msg, err := serializeToMessage(occ, fetchedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("891234567"), msg.Key)
	assert.Contains(t, string(msg.Value), `"species":"Actias luna"`)
	assert.Contains(t, string(msg.Value), `"year":1947`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "taxon_group", msg.Headers[0].Key)
	assert.Equal(t, []byte("Lepidoptera"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(fetchedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_AbsentFieldsStayPresent(t *testing.T) {
	msg, err := serializeToMessage(domain.Occurrence{SourceKey: 1}, time.Now())
	require.NoError(t, err)

	// Normalized records keep a uniform shape: fields the source omitted
	// serialize as zero markers, not missing keys.
	assert.Contains(t, string(msg.Value), `"vernacular_name":""`)
	assert.Contains(t, string(msg.Value), `"month":0`)
	assert.Contains(t, string(msg.Value), `"latitude":0`)
}
