package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO date format used on the wire.
const DateLayout = "2006-01-02"

// DateInterval is an inclusive pair of calendar dates. Start <= End is the
// caller's responsibility.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseDateInterval parses both bounds. The order of the bounds is not checked.
func ParseDateInterval(start, end string) (DateInterval, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateInterval{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateInterval{}, err
	}
	return DateInterval{Start: s, End: e}, nil
}

// StartDate formats the start bound as YYYY-MM-DD.
func (d DateInterval) StartDate() string { return d.Start.Format(DateLayout) }

// EndDate formats the end bound as YYYY-MM-DD.
func (d DateInterval) EndDate() string { return d.End.Format(DateLayout) }

func (d DateInterval) String() string {
	return d.StartDate() + ".." + d.EndDate()
}

type dateIntervalJSON struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (d DateInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateIntervalJSON{StartDate: d.StartDate(), EndDate: d.EndDate()})
}

func (d *DateInterval) UnmarshalJSON(data []byte) error {
	var raw dateIntervalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDateInterval(raw.StartDate, raw.EndDate)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
