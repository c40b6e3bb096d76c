package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Producers on the rapid send local timestamps without a zone, for example
// "2024-05-02T13:45:10.123". Zoned RFC 3339 values are accepted too.
var localDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LocalDateTime is a timestamp read from a zone-less JSON string. Zone-less
// values are interpreted in Europe/Oslo.
type LocalDateTime struct {
	time.Time
}

var oslo = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		return time.Local
	}
	return loc
}()

// UnmarshalJSON implements json.Unmarshaler.
func (t *LocalDateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("local date time: %w", err)
	}
	for _, layout := range localDateTimeLayouts {
		var (
			parsed time.Time
			err    error
		)
		if layout == time.RFC3339Nano {
			parsed, err = time.Parse(layout, s)
		} else {
			parsed, err = time.ParseInLocation(layout, s, oslo)
		}
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("local date time: cannot parse %q", s)
}

// MarshalJSON writes the zone-less form.
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.In(oslo).Format("2006-01-02T15:04:05.999999999"))
}
