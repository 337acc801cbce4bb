package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const localLayout = "2006-01-02T15:04:05"

// Timestamp is a request date. It accepts RFC3339 and zone-less
// "2006-01-02T15:04:05[.fraction]"; a zone-less value is placed in the
// location given to In.
type Timestamp struct {
	t     time.Time
	local bool
}

// TimestampOf wraps an absolute instant.
func TimestampOf(t time.Time) *Timestamp { return &Timestamp{t: t} }

func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{t: t}, nil
	}
	t, err := time.Parse(localLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("date %q: want RFC3339 or %s", s, localLayout)
	}
	return Timestamp{t: t, local: true}, nil
}

// In resolves the timestamp, reading zone-less values as wall time in loc.
func (ts Timestamp) In(loc *time.Location) time.Time {
	if !ts.local {
		return ts.t
	}
	return time.Date(ts.t.Year(), ts.t.Month(), ts.t.Day(), ts.t.Hour(), ts.t.Minute(), ts.t.Second(), ts.t.Nanosecond(), loc)
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
