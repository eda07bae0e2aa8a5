// Package calendar implements whole-day date range arithmetic used by the
// booking engine. All values are calendar days: times are truncated to UTC
// midnight and both bounds of a range are occupied.
package calendar

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// Layout is the textual date form exchanged with front-ends.
const Layout = "02.01.2006"

var (
	ErrInvertedRange = errors.New("start date is after end date")
	ErrPastDate      = errors.New("start date is in the past")
	ErrBadFormat     = errors.New("date must have the form DD.MM.YYYY")
)

// DateRange is a closed range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day builds a calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day and location of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// AddDays shifts a calendar day by n days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// NewRange returns the range [start, end] with both bounds truncated.
func NewRange(start, end time.Time) DateRange {
	return DateRange{Start: Truncate(start), End: Truncate(end)}
}

// Empty reports whether the range contains no day.
func (r DateRange) Empty() bool {
	return r.Start.After(r.End)
}

// Days is the number of occupied days.
func (r DateRange) Days() int {
	if r.Empty() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + " - " + FormatDate(r.End)
}

// Overlaps reports whether a and b share at least one day. Ranges touching
// on a single boundary day overlap.
func Overlaps(a, b DateRange) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// ValidateRange checks a requested range against the injected current day.
func ValidateRange(start, end, today time.Time) error {
	start, end, today = Truncate(start), Truncate(end), Truncate(today)
	if start.After(end) {
		return ErrInvertedRange
	}
	if start.Before(today) {
		return ErrPastDate
	}
	return nil
}

// Complement yields the maximal sub-ranges of search not covered by busy, in
// chronological order. The sequence can be ranged over any number of times.
func Complement(search DateRange, busy []DateRange) iter.Seq[DateRange] {
	sorted := make([]DateRange, 0, len(busy))
	for _, b := range busy {
		if Overlaps(b, search) {
			sorted = append(sorted, b)
		}
	}
	slices.SortFunc(sorted, func(a, b DateRange) int {
		return a.Start.Compare(b.Start)
	})

	return func(yield func(DateRange) bool) {
		cursor := search.Start
		for _, b := range sorted {
			if cursor.After(search.End) {
				return
			}
			if b.Start.After(cursor) {
				gap := DateRange{Start: cursor, End: minDay(AddDays(b.Start, -1), search.End)}
				if !yield(gap) {
					return
				}
			}
			if next := AddDays(b.End, 1); next.After(cursor) {
				cursor = next
			}
		}
		if !cursor.After(search.End) {
			yield(DateRange{Start: cursor, End: search.End})
		}
	}
}

func minDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// ParseDate parses a DD.MM.YYYY day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	return t, nil
}

// FormatDate renders a day as DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// ParseRange parses "DD.MM.YYYY - DD.MM.YYYY". Spaces around the dash are
// optional.
func ParseRange(s string) (DateRange, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return DateRange{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	start, err := ParseDate(parts[0])
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(parts[1])
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}
