package certs

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date held as UTC midnight.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate normalizes an optional ISO-like date string. Only the first ten
// characters are read, so "2023-03-01T10:00:00Z" yields 2023-03-01. Anything
// that is absent or not YYYY-MM-DD reports false.
func ParseDate(s *string) (Date, bool) {
	if s == nil || len(*s) < len(dateLayout) {
		return Date{}, false
	}
	t, err := time.Parse(dateLayout, (*s)[:len(dateLayout)])
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

// ParseOptionalDate is ParseDate returning nil for an absent date.
func ParseOptionalDate(s *string) *Date {
	d, ok := ParseDate(s)
	if !ok {
		return nil
	}
	return &d
}

func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int { return d.t.Year() }

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// StringPtr renders an optional date, nil staying nil.
func StringPtr(d *Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
