// Package client dials the booking service with the same interceptor
// chain the server uses.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/timeout"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dzoniops/booking-service/calendar"
	pb "github.com/dzoniops/booking-service/pkg/bookingpb"
	"github.com/dzoniops/booking-service/telemetry"
)

const DefaultTimeout = 5 * time.Second

type Options struct {
	Logger     log.Logger
	Registerer prometheus.Registerer
	// Timeout bounds every unary call. Zero means DefaultTimeout.
	Timeout     time.Duration
	DialOptions []grpc.DialOption
}

type BookingClient struct {
	pb.BookingServiceClient
	conn   *grpc.ClientConn
	logger log.Logger
}

// Dial connects to addr. The connection is established lazily.
func Dial(addr string, opts Options) (*BookingClient, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.NewRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	rpcLogger := log.With(opts.Logger, "service", "gRPC/client", "component", "booking-client")

	clMetrics := grpcprom.NewClientMetrics(
		grpcprom.WithClientHandlingTimeHistogram(
			grpcprom.WithHistogramBuckets(telemetry.LatencyBuckets),
		),
	)
	if err := opts.Registerer.Register(clMetrics); err != nil {
		return nil, fmt.Errorf("register client metrics: %w", err)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			timeout.UnaryClientInterceptor(opts.Timeout),
			otelgrpc.UnaryClientInterceptor(),
			clMetrics.UnaryClientInterceptor(grpcprom.WithExemplarFromContext(telemetry.ExemplarFromContext)),
			logging.UnaryClientInterceptor(
				telemetry.InterceptorLogger(rpcLogger),
				logging.WithFieldsFromContext(telemetry.TraceIDFields),
			),
		),
	}, opts.DialOptions...)

	conn, err := grpc.Dial(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &BookingClient{
		BookingServiceClient: pb.NewBookingServiceClient(conn),
		conn:                 conn,
		logger:               rpcLogger,
	}, nil
}

func (c *BookingClient) Close() error {
	return c.conn.Close()
}

// Book requests period ("DD.MM.YYYY - DD.MM.YYYY") of a unit for a user.
func (c *BookingClient) Book(
	ctx context.Context,
	unitID uint64,
	userID int64,
	username string,
	period string,
) (*pb.RequestBookingResponse, error) {
	rng, err := calendar.ParseRange(period)
	if err != nil {
		return nil, err
	}
	res, err := c.RequestBooking(ctx, &pb.RequestBookingRequest{
		UnitId:    unitID,
		UserId:    userID,
		Username:  username,
		StartDate: calendar.FormatDate(rng.Start),
		EndDate:   calendar.FormatDate(rng.End),
	})
	if err != nil {
		return nil, err
	}
	if res.Status == pb.StatusRejected {
		level.Debug(c.logger).Log("msg", "booking rejected", "unit", unitID, "reason", res.Reason)
	}
	return res, nil
}

// Free lists the free sub-ranges of period for a unit.
func (c *BookingClient) Free(ctx context.Context, unitID uint64, period string) ([]*pb.DateRange, error) {
	rng, err := calendar.ParseRange(period)
	if err != nil {
		return nil, err
	}
	res, err := c.FreeRanges(ctx, &pb.FreeRangesRequest{
		UnitId: unitID,
		Range:  pb.DateRange{Start: calendar.FormatDate(rng.Start), End: calendar.FormatDate(rng.End)},
	})
	if err != nil {
		return nil, err
	}
	return res.Ranges, nil
}

// UnitNames maps unit ids to names.
func (c *BookingClient) UnitNames(ctx context.Context) (map[uint64]string, error) {
	res, err := c.ListUnits(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(res.Units))
	for _, u := range res.Units {
		names[u.Id] = u.Name
	}
	return names, nil
}
