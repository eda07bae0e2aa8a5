package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/db"
	"github.com/dzoniops/booking-service/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(gdb)
}

func dec(a, b int) calendar.DateRange {
	return calendar.DateRange{
		Start: calendar.Day(2024, time.December, a),
		End:   calendar.Day(2024, time.December, b),
	}
}

func guest(id int64) models.Requester {
	name := "guest"
	return models.Requester{UserID: id, Username: &name}
}

func TestCreateUnit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUnit(ctx, "  ", 1, nil)
	require.ErrorIs(t, err, ErrEmptyName)

	desc := "two bedrooms"
	id, err := s.CreateUnit(ctx, "Lake house", 1, &desc)
	require.NoError(t, err)
	require.NotZero(t, id)

	unit, err := s.GetUnit(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Lake house", unit.Name)
	require.Equal(t, "two bedrooms", *unit.Description)
	require.Equal(t, int64(1), unit.AdminID)

	require.NoError(t, s.EditDescription(ctx, id, "three bedrooms"))
	unit, err = s.GetUnit(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "three bedrooms", *unit.Description)

	require.ErrorIs(t, s.EditDescription(ctx, 999, "x"), ErrUnitNotFound)
	_, err = s.GetUnit(ctx, 999)
	require.ErrorIs(t, err, ErrUnitNotFound)

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
}

func TestCreateBookingConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	unitID, err := s.CreateUnit(ctx, "Cabin", 1, nil)
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, 999, guest(1), dec(1, 5), false)
	require.ErrorIs(t, err, ErrUnitNotFound)

	id, err := s.CreateBooking(ctx, unitID, guest(1), dec(1, 5), false)
	require.NoError(t, err)
	require.NotZero(t, id)

	// touching the last day conflicts
	_, err = s.CreateBooking(ctx, unitID, guest(2), dec(5, 8), false)
	require.ErrorIs(t, err, ErrDateConflict)

	_, err = s.CreateBooking(ctx, unitID, guest(2), dec(6, 8), true)
	require.NoError(t, err)

	// another unit is independent
	otherID, err := s.CreateUnit(ctx, "Barn", 1, nil)
	require.NoError(t, err)
	_, err = s.CreateBooking(ctx, otherID, guest(2), dec(1, 5), false)
	require.NoError(t, err)

	bookings, err := s.ListBookings(ctx, unitID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, dec(1, 5), bookings[0].Range())
	require.Equal(t, dec(6, 8), bookings[1].Range())
	require.True(t, bookings[1].DepositPaid)
	require.Equal(t, "guest", *bookings[0].Requester.Username)

	mine, err := s.ListBookingsForRequester(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.True(t, !mine[0].StartDate.After(mine[1].StartDate))
}

func TestCreateBookingConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	unitID, err := s.CreateUnit(ctx, "Cabin", 1, nil)
	require.NoError(t, err)

	const n = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateBooking(ctx, unitID, guest(int64(i)), dec(10+i%3, 14), false)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDateConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, n-1, conflicts)

	bookings, err := s.ListBookings(ctx, unitID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
}

func TestDepositAndCancellation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	unitID, err := s.CreateUnit(ctx, "Cabin", 1, nil)
	require.NoError(t, err)
	id, err := s.CreateBooking(ctx, unitID, guest(7), dec(1, 2), false)
	require.NoError(t, err)

	paid, err := s.ToggleDepositPaid(ctx, id)
	require.NoError(t, err)
	require.True(t, paid)
	paid, err = s.ToggleDepositPaid(ctx, id)
	require.NoError(t, err)
	require.False(t, paid)

	require.NoError(t, s.SetDepositPaid(ctx, id, true))
	b, err := s.GetBooking(ctx, id)
	require.NoError(t, err)
	require.True(t, b.DepositPaid)

	require.ErrorIs(t, s.SetDepositPaid(ctx, 999, true), ErrNotFound)
	_, err = s.ToggleDepositPaid(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	// not the owner: nothing removed
	require.ErrorIs(t, s.DeleteBooking(ctx, id, 8), ErrNotFound)
	_, err = s.GetBooking(ctx, id)
	require.NoError(t, err)

	require.NoError(t, s.DeleteBooking(ctx, id, 7))
	_, err = s.GetBooking(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteBooking(ctx, id, 7), ErrNotFound)
}

func TestDeleteUnitCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	unitID, err := s.CreateUnit(ctx, "Cabin", 1, nil)
	require.NoError(t, err)
	_, err = s.CreateBooking(ctx, unitID, guest(1), dec(1, 2), false)
	require.NoError(t, err)
	_, err = s.AddAttachment(ctx, unitID, models.PHOTO, "file-1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteUnit(ctx, unitID))

	_, err = s.GetUnit(ctx, unitID)
	require.ErrorIs(t, err, ErrUnitNotFound)
	bookings, err := s.ListBookings(ctx, unitID)
	require.NoError(t, err)
	require.Empty(t, bookings)
	photos, err := s.ListAttachments(ctx, unitID, models.PHOTO)
	require.NoError(t, err)
	require.Empty(t, photos)

	// unknown unit is a no-op
	require.NoError(t, s.DeleteUnit(ctx, unitID))
}

func TestAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	unitID, err := s.CreateUnit(ctx, "Cabin", 1, nil)
	require.NoError(t, err)

	for i := 0; i < MaxVideos; i++ {
		_, err := s.AddAttachment(ctx, unitID, models.VIDEO, "video")
		require.NoError(t, err)
	}
	_, err = s.AddAttachment(ctx, unitID, models.VIDEO, "one-too-many")
	require.ErrorIs(t, err, ErrAttachmentLimit)

	_, err = s.AddAttachment(ctx, unitID, models.PHOTO, "photo-1")
	require.NoError(t, err)
	_, err = s.AddAttachment(ctx, 999, models.PHOTO, "photo-1")
	require.ErrorIs(t, err, ErrUnitNotFound)

	photos, err := s.ListAttachments(ctx, unitID, models.PHOTO)
	require.NoError(t, err)
	require.Len(t, photos, 1)

	require.NoError(t, s.DeleteAttachment(ctx, unitID, "photo-1"))
	require.ErrorIs(t, s.DeleteAttachment(ctx, unitID, "photo-1"), ErrNoAttachment)
}

func TestStatistics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateUnit(ctx, "A", 1, nil)
	require.NoError(t, err)
	b, err := s.CreateUnit(ctx, "B", 1, nil)
	require.NoError(t, err)
	_, err = s.CreateBooking(ctx, a, guest(1), dec(1, 2), true)
	require.NoError(t, err)
	_, err = s.CreateBooking(ctx, a, guest(1), dec(3, 4), false)
	require.NoError(t, err)

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.UnitStats{
		{UnitID: a, Name: "A", Bookings: 2, Paid: 1},
		{UnitID: b, Name: "B", Bookings: 0, Paid: 0},
	}, stats)
}

func TestStorageErrorWrapping(t *testing.T) {
	cause := errors.New("disk on fire")
	err := wrap("op", cause)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "op", se.Op)
	require.ErrorIs(t, err, cause)

	require.ErrorIs(t, wrap("op", ErrDateConflict), ErrDateConflict)
	require.NoError(t, wrap("op", nil))
}
