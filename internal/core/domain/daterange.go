package domain

import (
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"
)

// DateRange is an inclusive span of calendar days. Both endpoints are
// civil dates, so time of day and timezone offsets never leak in.
type DateRange struct {
	Start civil.Date `json:"startDate"`
	End   civil.Date `json:"endDate"`
}

func NewDateRange(start, end civil.Date) (DateRange, error) {
	if !start.IsValid() || !end.IsValid() {
		return DateRange{}, fmt.Errorf("%w: malformed date", ErrInvalidRange)
	}

	if end.Before(start) {
		return DateRange{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange, end, start)
	}

	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange accepts YYYY-MM-DD endpoints.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := civil.ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}

	e, err := civil.ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}

	return NewDateRange(s, e)
}

// DateOf truncates t to the calendar day in t's own location.
func DateOf(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// Nights is the calendar-day difference between the endpoints, never negative.
func (r DateRange) Nights() int {
	return max(0, r.End.DaysSince(r.Start))
}

func (r DateRange) Overlaps(o DateRange) bool {
	return !(r.End.Before(o.Start) || r.Start.After(o.End))
}

// Adjacent reports whether one range ends the day before the other starts.
func (r DateRange) Adjacent(o DateRange) bool {
	return r.End.AddDays(1) == o.Start || o.End.AddDays(1) == r.Start
}

func (r DateRange) Touches(o DateRange) bool {
	return r.Overlaps(o) || r.Adjacent(o)
}

func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}

// Merge returns the minimal sorted list of pairwise non-touching ranges
// covering the same days as the input. The input slice is not modified.
func Merge(ranges []DateRange) []DateRange {
	if len(ranges) == 0 {
		return []DateRange{}
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b DateRange) int {
		return compareDates(a.Start, b.Start)
	})

	out := []DateRange{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &out[len(out)-1]
		if !cur.Start.After(last.End.AddDays(1)) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
			continue
		}

		out = append(out, cur)
	}

	return out
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
