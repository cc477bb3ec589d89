package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampDecodesBackendFormats(t *testing.T) {
	cases := map[string]string{
		"zone-less":            `"2026-03-01T12:30:45"`,
		"zone-less fractional": `"2026-03-01T12:30:45.123"`,
		"rfc3339":              `"2026-03-01T12:30:45Z"`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(raw), &ts))
			assert.Equal(t, 2026, ts.Year())
			assert.Equal(t, 30, ts.Minute())
		})
	}

	t.Run("null decodes to zero time", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
		assert.True(t, ts.IsZero())
	})
}

func TestOrderPartyHelpers(t *testing.T) {
	order := Order{
		ID:         "o1",
		Compratore: &User{ID: "u2"},
		Venditore:  &User{ID: "u1"},
		Prodotto:   &Product{ID: "p1", Titolo: "Desk"},
	}

	assert.Equal(t, "u2", order.BuyerID())
	assert.Equal(t, "u1", order.SellerID())
	assert.Equal(t, "p1", order.ProductID())
	assert.Equal(t, "Desk", order.ProductTitle())

	// Deleted listings and trimmed payloads degrade gracefully.
	bare := Order{ID: "o2", DataOrdine: NewTimestamp(time.Now())}
	assert.Empty(t, bare.BuyerID())
	assert.Empty(t, bare.SellerID())
	assert.Empty(t, bare.ProductID())
	assert.Equal(t, "(deleted listing)", bare.ProductTitle())
}

func TestPageHasMore(t *testing.T) {
	assert.True(t, Page[Review]{Number: 0, TotalPages: 3}.HasMore())
	assert.False(t, Page[Review]{Number: 2, TotalPages: 3, Last: true}.HasMore())
	assert.False(t, Page[Review]{Number: 0, TotalPages: 1, Last: true}.HasMore())
	assert.False(t, Page[Review]{}.HasMore())
}
