package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentEvents(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("uploaded carries key and version", func(t *testing.T) {
		e := NewDocumentUploaded("f1", "d1", "brief.pdf", "clients/c/file-numbers/n/docs/brief.pdf", "v1", "user-1", at)

		assert.Equal(t, TypeDocumentUploaded, e.GetEventType())
		assert.Equal(t, "f1/d1", e.GetAggregateID())
		assert.Equal(t, at, e.GetTimestamp())
		assert.Equal(t, 1, e.GetVersion())
		assert.Equal(t, "v1", e.VersionID)
	})

	t.Run("deleted omits empty optional fields", func(t *testing.T) {
		e := NewDocumentDeleted("f1", "d1", "brief.pdf", "user-1", at)

		raw, err := json.Marshal(e)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "document.deleted", decoded["eventType"])
		assert.NotContains(t, decoded, "s3Key")
		assert.NotContains(t, decoded, "versionId")
	})
}

func TestClientCreated(t *testing.T) {
	e := NewClientCreated("c1", "u1", "Jane Roe", time.Now())

	assert.Equal(t, "c1", e.GetAggregateID())
	assert.Equal(t, TypeClientCreated, e.GetEventType())
	assert.Equal(t, "u1", e.UserID)
}
