package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// timestampLayouts are tried in order when the backend sends a string.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a backend timestamp that keeps the raw value when it cannot be parsed.
// The backend usually sends ISO-8601 strings but millisecond epochs are accepted too.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp builds a Timestamp from its textual form.
func ParseTimestamp(raw string) Timestamp {
	ts := Timestamp{Raw: raw}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts.Time = parsed
			return ts
		}
	}
	return ts
}

// UnmarshalJSON accepts a string, a number of milliseconds since the epoch, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*t = ParseTimestamp(str)
		return nil
	}

	var millis float64
	if err := json.Unmarshal(data, &millis); err != nil {
		return err
	}
	*t = Timestamp{
		Time: time.UnixMilli(int64(millis)).UTC(),
		Raw:  strconv.FormatFloat(millis, 'f', -1, 64),
	}
	return nil
}

// MarshalJSON writes RFC 3339 when the value parsed, the raw text otherwise.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Time.IsZero() {
		return json.Marshal(t.Time.Format(time.RFC3339Nano))
	}
	if t.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}

// IsZero reports whether the backend sent no value at all.
func (t Timestamp) IsZero() bool {
	return t.Time.IsZero() && t.Raw == ""
}

// Display renders the timestamp with layout: "-" when absent, the raw text when unparseable.
func (t Timestamp) Display(layout string) string {
	if t.IsZero() {
		return "-"
	}
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format(layout)
}
