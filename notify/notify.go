// Package notify delivers booking events to admins. Delivery is best effort:
// a failure for one recipient is logged and never reaches the caller.
package notify

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/dzoniops/booking-service/calendar"
)

// BookingConfirmed is emitted after a booking has been stored.
type BookingConfirmed struct {
	EventID   string             `json:"event_id"`
	BookingID uint               `json:"booking_id"`
	UnitID    uint               `json:"unit_id"`
	UnitName  string             `json:"unit_name"`
	Range     calendar.DateRange `json:"range"`
	Period    string             `json:"period"`
	UserID    int64              `json:"user_id"`
	Username  string             `json:"username,omitempty"`
	At        time.Time          `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, recipientID int64, ev BookingConfirmed) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, recipientID int64, ev BookingConfirmed) error

func (f NotifierFunc) Notify(ctx context.Context, recipientID int64, ev BookingConfirmed) error {
	return f(ctx, recipientID, ev)
}

// LogNotifier only writes the event to the log. Used when no broker is
// configured.
type LogNotifier struct {
	Logger log.Logger
}

func (n LogNotifier) Notify(_ context.Context, recipientID int64, ev BookingConfirmed) error {
	return level.Info(n.Logger).Log(
		"msg", "booking confirmed",
		"recipient", recipientID,
		"booking", ev.BookingID,
		"unit", ev.UnitName,
		"period", ev.Period,
		"user", ev.UserID,
	)
}

// Fanout sends ev to every distinct recipient and returns how many
// deliveries succeeded.
func Fanout(ctx context.Context, logger log.Logger, n Notifier, recipients []int64, ev BookingConfirmed) int {
	delivered := 0
	seen := make(map[int64]struct{}, len(recipients))
	for _, id := range recipients {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := n.Notify(ctx, id, ev); err != nil {
			level.Warn(logger).Log(
				"msg", "notification not delivered",
				"recipient", id,
				"booking", ev.BookingID,
				"err", err,
			)
			continue
		}
		delivered++
	}
	return delivered
}
