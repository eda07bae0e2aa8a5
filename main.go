package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dzoniops/booking-service/config"
	"github.com/dzoniops/booking-service/db"
	"github.com/dzoniops/booking-service/notify"
	pb "github.com/dzoniops/booking-service/pkg/bookingpb"
	"github.com/dzoniops/booking-service/planner"
	"github.com/dzoniops/booking-service/services"
	"github.com/dzoniops/booking-service/store"
	"github.com/dzoniops/booking-service/telemetry"
	"github.com/dzoniops/booking-service/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Setup logging.
	logger := telemetry.NewLogger(os.Stderr, cfg.LogLevel)
	rpcLogger := log.With(logger, "service", "gRPC/server", "component", "booking")

	utils.InitValidator()

	shutdownTracing, err := telemetry.InitTracing(cfg.TraceStdout)
	if err != nil {
		level.Error(logger).Log("msg", "failed to set up tracing", "err", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	gdb, err := db.InitDB(cfg)
	if err != nil {
		level.Error(logger).Log("msg", "failed to open database", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	st := store.New(gdb)

	// Setup metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srvMetrics := grpcprom.NewServerMetrics(
		grpcprom.WithServerHandlingTimeHistogram(
			grpcprom.WithHistogramBuckets(telemetry.LatencyBuckets),
		),
	)
	reg.MustRegister(srvMetrics)

	// Setup metric for panic recoveries.
	panicsTotal := promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "grpc_req_panics_recovered_total",
		Help: "Total number of gRPC requests recovered from internal panic.",
	})
	grpcPanicRecoveryHandler := func(p any) (err error) {
		panicsTotal.Inc()
		level.Error(rpcLogger).
			Log("msg", "recovered from panic", "panic", p, "stack", debug.Stack())
		return status.Errorf(codes.Internal, "%s", p)
	}

	var notifier notify.Notifier = notify.LogNotifier{Logger: log.With(logger, "component", "notify")}
	closeNotifier := func() error { return nil }
	if cfg.AMQPURL != "" {
		amqpNotifier, closeFn, err := notify.DialAMQP(cfg.AMQPURL, cfg.NotifyExchange)
		if err != nil {
			level.Error(logger).Log("msg", "failed to connect to broker", "err", err)
			os.Exit(1)
		}
		notifier, closeNotifier = amqpNotifier, closeFn
	}

	pl := planner.New(st, planner.WithHorizon(cfg.SuggestHorizonDays), planner.WithLimit(cfg.SuggestLimit))
	reservations := services.NewReservations(st, pl, notifier, logger,
		services.WithAdmins(cfg.AdminIDs),
		services.WithRegisterer(reg),
	)

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			// Order matters e.g. tracing interceptor have to create span first for the later exemplars to work.
			otelgrpc.UnaryServerInterceptor(),
			srvMetrics.UnaryServerInterceptor(
				grpcprom.WithExemplarFromContext(telemetry.ExemplarFromContext),
			),
			logging.UnaryServerInterceptor(
				telemetry.InterceptorLogger(rpcLogger),
				logging.WithFieldsFromContext(telemetry.TraceIDFields),
			),
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(grpcPanicRecoveryHandler)),
		),
	)
	pb.RegisterBookingServiceServer(grpcSrv, &services.Server{
		Store:        st,
		Planner:      pl,
		Reservations: reservations,
		Logger:       rpcLogger,
	})
	srvMetrics.InitializeMetrics(grpcSrv)

	stats := services.NewStatsCollector(st, reg, logger)
	scheduler := cron.New(cron.WithLocation(time.UTC))
	if err := stats.Schedule(scheduler, cfg.StatsCron, 30*time.Second); err != nil {
		level.Error(logger).Log("msg", "invalid STATS_CRON", "spec", cfg.StatsCron, "err", err)
		os.Exit(1)
	}

	g := &run.Group{}
	g.Add(func() error {
		l, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
		if err != nil {
			return err
		}
		level.Info(logger).Log("msg", "starting gRPC server", "addr", l.Addr().String())
		return grpcSrv.Serve(l)
	}, func(err error) {
		grpcSrv.GracefulStop()
		grpcSrv.Stop()
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.MetricsPort),
		Handler:           services.NewHTTPHandler(reg, st, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Add(func() error {
		level.Info(logger).Log("msg", "starting HTTP server", "addr", httpSrv.Addr)
		return httpSrv.ListenAndServe()
	}, func(error) {
		if err := httpSrv.Close(); err != nil {
			level.Error(logger).Log("msg", "failed to stop web server", "err", err)
		}
	})

	cronDone := make(chan struct{})
	g.Add(func() error {
		scheduler.Start()
		level.Info(logger).Log("msg", "scheduled statistics refresh", "spec", cfg.StatsCron)
		<-cronDone
		return nil
	}, func(error) {
		<-scheduler.Stop().Done()
		close(cronDone)
	})

	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))

	err = g.Run()
	reservations.Wait()
	if cerr := closeNotifier(); cerr != nil {
		level.Warn(logger).Log("msg", "failed to close notifier", "err", cerr)
	}
	if err != nil {
		var sigErr run.SignalError
		if errors.As(err, &sigErr) {
			level.Info(logger).Log("msg", "shutting down", "reason", err)
			return
		}
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}
