package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/dzoniops/booking-service/models"
)

type statsFunc func(ctx context.Context) ([]models.UnitStats, error)

func (f statsFunc) Statistics(ctx context.Context) ([]models.UnitStats, error) { return f(ctx) }

func TestStatsCollectorRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := []models.UnitStats{
		{UnitID: 1, Name: "Cabin", Bookings: 3, Paid: 1},
		{UnitID: 2, Name: "Loft", Bookings: 0, Paid: 0},
	}
	c := NewStatsCollector(statsFunc(func(context.Context) ([]models.UnitStats, error) {
		return stats, nil
	}), reg, log.NewNopLogger())

	require.NoError(t, c.Refresh(context.Background()))
	expected := `
# HELP booking_unit_bookings Stored bookings per unit.
# TYPE booking_unit_bookings gauge
booking_unit_bookings{name="Cabin",unit="1"} 3
booking_unit_bookings{name="Loft",unit="2"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "booking_unit_bookings"))

	// deleted units disappear on the next refresh
	stats = stats[:1]
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, 1, testutil.CollectAndCount(c.paid))
	require.Equal(t, 1.0, testutil.ToFloat64(c.paid.WithLabelValues("1", "Cabin")))
}

func TestStatsCollectorError(t *testing.T) {
	boom := errors.New("db down")
	c := NewStatsCollector(statsFunc(func(context.Context) ([]models.UnitStats, error) {
		return nil, boom
	}), prometheus.NewRegistry(), log.NewNopLogger())
	require.ErrorIs(t, c.Refresh(context.Background()), boom)
}

func TestStatsCollectorSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unitID, err := f.store.CreateUnit(ctx, "Cabin", 1, nil)
	require.NoError(t, err)
	_, err = f.reservations.RequestBooking(ctx, unitID, models.Requester{UserID: 1}, dec(1, 2), today)
	require.NoError(t, err)
	f.reservations.Wait()

	c := NewStatsCollector(f.store, prometheus.NewRegistry(), log.NewNopLogger())
	cr := cron.New()
	require.NoError(t, c.Schedule(cr, "@every 1s", time.Second))
	require.Error(t, c.Schedule(cr, "not a spec", time.Second))
	cr.Start()
	defer cr.Stop()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(c.bookings.WithLabelValues("1", "Cabin")) == 1
	}, 5*time.Second, 50*time.Millisecond)
}
