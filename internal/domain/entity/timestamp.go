package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	DateLayout,
}

// Timestamp is a movement boundary. It accepts the string formats the service
// emits, epoch milliseconds, and null (the zero Timestamp). It marshals as
// RFC 3339 with full precision, or null when zero.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var millis json.Number
	if len(data) > 0 && data[0] != '"' {
		if err := json.Unmarshal(data, &millis); err != nil {
			return fmt.Errorf("timestamp must be a string or epoch milliseconds: %w", err)
		}
		ms, err := millis.Int64()
		if err != nil {
			return fmt.Errorf("timestamp must be whole epoch milliseconds: %s", millis)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.RFC3339())
}

// RFC3339 renders t in UTC, keeping sub-second digits. The zero Timestamp
// renders as "".
func (t Timestamp) RFC3339() string {
	if t.IsZero() {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339Nano)
}
