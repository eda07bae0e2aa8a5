package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/db"
	"github.com/dzoniops/booking-service/notify"
	"github.com/dzoniops/booking-service/planner"
	"github.com/dzoniops/booking-service/store"
)

// today is fixed so that December 2024 dates are in the future.
var today = calendar.Day(2024, time.November, 1)

func dec(a, b int) calendar.DateRange {
	return calendar.DateRange{
		Start: calendar.Day(2024, time.December, a),
		End:   calendar.Day(2024, time.December, b),
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	gdb, err := db.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(gdb)
}

type delivery struct {
	recipient int64
	event     notify.BookingConfirmed
}

// recordingNotifier keeps successful deliveries and fails for the ids in
// failFor.
type recordingNotifier struct {
	mu        sync.Mutex
	delivered []delivery
	failFor   map[int64]bool
}

func (n *recordingNotifier) Notify(_ context.Context, id int64, ev notify.BookingConfirmed) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[id] {
		return errors.New("recipient unreachable")
	}
	n.delivered = append(n.delivered, delivery{recipient: id, event: ev})
	return nil
}

func (n *recordingNotifier) recipients() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]int64, len(n.delivered))
	for i, d := range n.delivered {
		out[i] = d.recipient
	}
	return out
}

type fixture struct {
	store        *store.Store
	planner      *planner.Planner
	notifier     *recordingNotifier
	reservations *Reservations
}

func newFixture(t *testing.T, opts ...ReservationsOption) *fixture {
	t.Helper()
	st := newTestStore(t)
	pl := planner.New(st)
	n := &recordingNotifier{failFor: map[int64]bool{}}
	return &fixture{
		store:        st,
		planner:      pl,
		notifier:     n,
		reservations: NewReservations(st, pl, n, log.NewNopLogger(), opts...),
	}
}
