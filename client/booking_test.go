package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/driver/sqlite"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/db"
	"github.com/dzoniops/booking-service/notify"
	pb "github.com/dzoniops/booking-service/pkg/bookingpb"
	"github.com/dzoniops/booking-service/planner"
	"github.com/dzoniops/booking-service/services"
	"github.com/dzoniops/booking-service/store"
)

func newTestClient(t *testing.T, reg prometheus.Registerer) *BookingClient {
	t.Helper()
	gdb, err := db.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	st := store.New(gdb)
	pl := planner.New(st)
	logger := log.NewNopLogger()
	reservations := services.NewReservations(st, pl, notify.LogNotifier{Logger: logger}, logger)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterBookingServiceServer(srv, &services.Server{
		Store:        st,
		Planner:      pl,
		Reservations: reservations,
		Logger:       logger,
		Now:          func() time.Time { return calendar.Day(2024, time.November, 1) },
	})
	go func() { _ = srv.Serve(lis) }()

	c, err := Dial("bufnet", Options{
		Registerer: reg,
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
		reservations.Wait()
	})
	return c
}

func TestClientBookAndFree(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	created, err := c.CreateUnit(ctx, &pb.CreateUnitRequest{Name: "Cabin", AdminId: 1})
	require.NoError(t, err)

	res, err := c.Book(ctx, created.UnitId, 9, "bob", "03.12.2024 - 05.12.2024")
	require.NoError(t, err)
	require.Equal(t, pb.StatusConfirmed, res.Status)

	res, err = c.Book(ctx, created.UnitId, 9, "bob", "05.12.2024-06.12.2024")
	require.NoError(t, err)
	require.Equal(t, pb.StatusRejected, res.Status)
	require.Equal(t, pb.ReasonDateConflict, res.Reason)

	_, err = c.Book(ctx, created.UnitId, 9, "bob", "03.12.2024")
	require.ErrorIs(t, err, calendar.ErrBadFormat)

	free, err := c.Free(ctx, created.UnitId, "01.12.2024 - 06.12.2024")
	require.NoError(t, err)
	require.Equal(t, []*pb.DateRange{
		{Start: "01.12.2024", End: "02.12.2024"},
		{Start: "06.12.2024", End: "06.12.2024"},
	}, free)

	names, err := c.UnitNames(ctx)
	require.NoError(t, err)
	require.Equal(t, map[uint64]string{created.UnitId: "Cabin"}, names)
}

func TestDialRegistersMetricsOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	newTestClient(t, reg)

	_, err := Dial("bufnet", Options{Registerer: reg})
	require.Error(t, err)
}
