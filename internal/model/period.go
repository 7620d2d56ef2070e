package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// periodFormat is the wire format for a calendar month.
const periodFormat = "2006-01"

// Period identifies one calendar month. The tax engine computes one report
// per Period and the loss-carryforward ledger advances Period by Period.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod returns a normalized Period for the given year and month.
func NewPeriod(year int, month time.Month) Period {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

// PeriodOf returns the Period containing the given date.
func PeriodOf(date time.Time) Period {
	return Period{Year: date.Year(), Month: date.Month()}
}

// ParsePeriod parses a month in "YYYY-MM" format.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodFormat, s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid month %q, want format YYYY-MM: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return NewPeriod(p.Year, p.Month+1)
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// After reports whether p is strictly later than other.
func (p Period) After(other Period) bool {
	return other.Before(p)
}

// Contains reports whether the given date falls inside the month.
func (p Period) Contains(date time.Time) bool {
	return date.Year() == p.Year && date.Month() == p.Month
}

// String formats the period as "YYYY-MM".
func (p Period) String() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format(periodFormat)
}

// MarshalJSON encodes the period as a "YYYY-MM" string.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string.
func (p *Period) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

var _ json.Marshaler = Period{}
var _ json.Unmarshaler = (*Period)(nil)
