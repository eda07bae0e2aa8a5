// Package planner answers availability questions for a unit from its stored
// bookings.
package planner

import (
	"context"
	"slices"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/models"
)

const (
	DefaultHorizonDays = 30
	DefaultLimit       = 5
)

// BookingLister is the read side of the booking store used here.
type BookingLister interface {
	ListBookings(ctx context.Context, unitID uint) ([]models.Booking, error)
}

type Planner struct {
	bookings    BookingLister
	horizonDays int
	limit       int
}

type Option func(*Planner)

// WithHorizon sets how many days after a rejected range are searched.
func WithHorizon(days int) Option {
	return func(p *Planner) {
		if days > 0 {
			p.horizonDays = days
		}
	}
}

// WithLimit caps the number of suggested ranges.
func WithLimit(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.limit = n
		}
	}
}

func New(bookings BookingLister, opts ...Option) *Planner {
	p := &Planner{bookings: bookings, horizonDays: DefaultHorizonDays, limit: DefaultLimit}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsAvailable reports whether no booking of the unit other than exclude
// overlaps rng. Pass exclude = 0 to consider every booking.
func (p *Planner) IsAvailable(ctx context.Context, unitID uint, rng calendar.DateRange, exclude uint) (bool, error) {
	bookings, err := p.bookings.ListBookings(ctx, unitID)
	if err != nil {
		return false, err
	}
	rng = calendar.NewRange(rng.Start, rng.End)
	for _, b := range bookings {
		if b.ID == exclude {
			continue
		}
		if calendar.Overlaps(b.Range(), rng) {
			return false, nil
		}
	}
	return true, nil
}

// BusyRanges returns the booked ranges of a unit in chronological order.
func (p *Planner) BusyRanges(ctx context.Context, unitID uint) ([]calendar.DateRange, error) {
	bookings, err := p.bookings.ListBookings(ctx, unitID)
	if err != nil {
		return nil, err
	}
	busy := make([]calendar.DateRange, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, b.Range())
	}
	return busy, nil
}

// FreeRanges returns the maximal free sub-ranges of search.
func (p *Planner) FreeRanges(ctx context.Context, unitID uint, search calendar.DateRange) ([]calendar.DateRange, error) {
	busy, err := p.BusyRanges(ctx, unitID)
	if err != nil {
		return nil, err
	}
	search = calendar.NewRange(search.Start, search.End)
	return slices.Collect(calendar.Complement(search, busy)), nil
}

// SuggestAfterConflict lists the earliest free ranges in the horizon that
// follows a rejected request.
func (p *Planner) SuggestAfterConflict(ctx context.Context, unitID uint, requested calendar.DateRange) ([]calendar.DateRange, error) {
	return p.Suggest(ctx, unitID, requested, p.horizonDays, p.limit)
}

// Suggest is SuggestAfterConflict with an explicit horizon and cap.
func (p *Planner) Suggest(ctx context.Context, unitID uint, requested calendar.DateRange, horizonDays, limit int) ([]calendar.DateRange, error) {
	if horizonDays <= 0 {
		horizonDays = p.horizonDays
	}
	if limit <= 0 {
		limit = p.limit
	}
	from := calendar.AddDays(requested.End, 1)
	search := calendar.DateRange{Start: from, End: calendar.AddDays(from, horizonDays)}

	busy, err := p.BusyRanges(ctx, unitID)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.DateRange, 0, limit)
	for free := range calendar.Complement(search, busy) {
		out = append(out, free)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
