package model

import (
	"strings"
	"time"
)

// timeLayouts are tried in order when decoding backend timestamps. The
// backend serializes Java LocalDateTime values without a zone designator
// and with optional fractional seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp wraps time.Time with JSON decoding tolerant of the backend's
// zone-less LocalDateTime format.
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON decodes a JSON string into a Timestamp, trying each known
// layout. Empty and null values decode to the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON encodes the Timestamp as an RFC 3339 JSON string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
