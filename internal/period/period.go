package period

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Kind is the granularity of a reporting window. It is also used to tag the
// granularity of a single spending entry.
type Kind string

const (
	Daily     Kind = "daily"
	Weekly    Kind = "weekly"
	Monthly   Kind = "monthly"
	Quarterly Kind = "quarterly"
	Yearly    Kind = "yearly"
)

// Kinds lists every recognised period kind in ascending length.
var Kinds = []Kind{Daily, Weekly, Monthly, Quarterly, Yearly}

// Valid reports whether k is one of the recognised kinds.
func (k Kind) Valid() bool {
	switch k {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// OrDefault returns k, or Monthly when k is empty or unrecognised.
func (k Kind) OrDefault() Kind {
	if k.Valid() {
		return k
	}
	return Monthly
}

// MonthMultiplier returns the length of the period expressed in months, used
// to scale a monthly salary to the period.
func (k Kind) MonthMultiplier() float64 {
	switch k.OrDefault() {
	case Daily:
		return 1.0 / 30.0
	case Weekly:
		return 1.0 / 4.0
	case Quarterly:
		return 3
	case Yearly:
		return 12
	default:
		return 1
	}
}

// ParseKind validates a period kind supplied by a caller. An empty string is
// accepted and resolves to Monthly.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return Monthly, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("period must be one of: daily, weekly, monthly, quarterly, yearly")
	}
	return k, nil
}

// Range is an inclusive instant range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, boundaries included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartDate returns the first day of the range as YYYY-MM-DD.
func (r Range) StartDate() string {
	return r.Start.Format(DateLayout)
}

// EndDate returns the last day of the range as YYYY-MM-DD.
func (r Range) EndDate() string {
	return r.End.Format(DateLayout)
}

// Resolve returns the period of the given kind that contains anchor. Weeks
// start on Monday. Unrecognised kinds resolve as Monthly.
func Resolve(kind Kind, anchor time.Time) Range {
	y, m, d := anchor.Date()
	loc := anchor.Location()

	var start, next time.Time
	switch kind.OrDefault() {
	case Daily:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 0, 1)
	case Weekly:
		// time.Weekday is Sunday=0; shift so Monday=0.
		offset := (int(anchor.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 0, 7)
	case Quarterly:
		firstMonth := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, firstMonth, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 3, 0)
	case Yearly:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(1, 0, 0)
	default:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 1, 0)
	}

	return Range{Start: start, End: next.Add(-time.Nanosecond)}
}

// Previous returns the period of the same kind immediately preceding the one
// that contains anchor.
func Previous(kind Kind, anchor time.Time) Range {
	current := Resolve(kind, anchor)
	return Resolve(kind, current.Start.AddDate(0, 0, -1))
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
