package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_MarshalJSON(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 2, 1, 12, 30, 0, 500_000_000, time.FixedZone("X", 3600))

	t.Run("without updated", func(t *testing.T) {
		got, err := json.Marshal(Link{Path: "abc123", URL: "https://example.com", Created: created})

		require.NoError(t, err)
		assert.JSONEq(t, `{"path":"abc123","url":"https://example.com","created":"2024-01-01T00:00:00.000Z"}`, string(got))
	})

	t.Run("with updated", func(t *testing.T) {
		got, err := json.Marshal(&Link{Path: "abc123", URL: "https://example.com", Created: created, Updated: &updated})

		require.NoError(t, err)
		assert.JSONEq(t, `{"path":"abc123","url":"https://example.com","created":"2024-01-01T00:00:00.000Z","updated":"2024-02-01T11:30:00.500Z"}`, string(got))
	})

	t.Run("round trip", func(t *testing.T) {
		data := `{"path":"abc123","url":"https://example.com","created":"2024-01-01T00:00:00.000Z","updated":"2024-02-01T11:30:00.500Z"}`

		var l Link
		require.NoError(t, json.Unmarshal([]byte(data), &l))

		assert.True(t, created.Equal(l.Created))
		require.NotNil(t, l.Updated)
		assert.True(t, updated.Equal(*l.Updated))
	})
}

func TestLink_ShortURL(t *testing.T) {
	l := Link{Path: "abc123"}

	assert.Equal(t, "https://sho.rt/abc123", l.ShortURL("https://sho.rt"))
	assert.Equal(t, "https://sho.rt/abc123", l.ShortURL("https://sho.rt/"))
}
