package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a UTC calendar day with no time-of-day. Two instants fall on the
// same Day when their UTC year, month and day match.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
}

// DayOf returns the UTC calendar day of t.
func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{Year: y, Month: m, Dom: d}
}

// ParseDay accepts "YYYY-MM-DD" or any RFC 3339 timestamp; for the latter
// only the date part is kept.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dayLayout) && s[len(dayLayout)] == 'T' {
		s = s[:len(dayLayout)]
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DayOf(t), nil
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Dom)
}

// Time is midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, loc)
}

func (d Day) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Contains reports whether t falls on d.
func (d Day) Contains(t time.Time) bool {
	return DayOf(t) == d
}

func (d Day) Before(o Day) bool {
	return d.String() < o.String()
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
