package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/models"
	"github.com/dzoniops/booking-service/notify"
	"github.com/dzoniops/booking-service/planner"
	"github.com/dzoniops/booking-service/store"
)

var tracer = otel.Tracer("github.com/dzoniops/booking-service/services")

// BookingStore is the persistence used by the reservation workflow.
type BookingStore interface {
	planner.BookingLister
	GetUnit(ctx context.Context, id uint) (*models.Unit, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	CreateBooking(ctx context.Context, unitID uint, requester models.Requester, rng calendar.DateRange, depositPaid bool) (uint, error)
	DeleteBooking(ctx context.Context, id uint, requesterID int64) error
	ToggleDepositPaid(ctx context.Context, id uint) (bool, error)
}

// Confirmation is the result of an accepted booking request.
type Confirmation struct {
	Booking models.Booking
	Unit    models.Unit
	Status  models.BookingStatus
}

// Reservations runs booking requests through validation, the availability
// check and the store, and announces confirmed bookings to admins.
type Reservations struct {
	store         BookingStore
	planner       *planner.Planner
	notifier      notify.Notifier
	admins        []int64
	notifyTimeout time.Duration
	logger        log.Logger

	requests *prometheus.CounterVec
	wg       sync.WaitGroup
}

type ReservationsOption func(*Reservations)

// WithAdmins adds recipients notified of every confirmed booking.
func WithAdmins(ids []int64) ReservationsOption {
	return func(r *Reservations) { r.admins = append([]int64(nil), ids...) }
}

func WithNotifyTimeout(d time.Duration) ReservationsOption {
	return func(r *Reservations) { r.notifyTimeout = d }
}

// WithRegisterer registers the workflow metrics with reg.
func WithRegisterer(reg prometheus.Registerer) ReservationsOption {
	return func(r *Reservations) {
		r.requests = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Booking requests by outcome.",
		}, []string{"outcome"})
	}
}

func NewReservations(
	st BookingStore,
	pl *planner.Planner,
	notifier notify.Notifier,
	logger log.Logger,
	opts ...ReservationsOption,
) *Reservations {
	r := &Reservations{
		store:         st,
		planner:       pl,
		notifier:      notifier,
		notifyTimeout: 10 * time.Second,
		logger:        log.With(logger, "component", "reservations"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.requests == nil {
		WithRegisterer(prometheus.NewRegistry())(r)
	}
	return r
}

// RequestBooking validates rng against today, checks availability and
// stores the booking. Rejections are returned as calendar.ErrInvertedRange,
// calendar.ErrPastDate or store.ErrDateConflict; the caller decides whether
// to ask the planner for alternatives.
func (r *Reservations) RequestBooking(
	ctx context.Context,
	unitID uint,
	requester models.Requester,
	rng calendar.DateRange,
	today time.Time,
) (*Confirmation, error) {
	ctx, span := tracer.Start(ctx, "RequestBooking")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("unit.id", int64(unitID)),
		attribute.String("range", rng.String()),
	)

	conf, err := r.requestBooking(ctx, unitID, requester, rng, today)
	r.requests.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("booking.id", int64(conf.Booking.ID)))
	return conf, nil
}

func (r *Reservations) requestBooking(
	ctx context.Context,
	unitID uint,
	requester models.Requester,
	rng calendar.DateRange,
	today time.Time,
) (*Confirmation, error) {
	if err := calendar.ValidateRange(rng.Start, rng.End, today); err != nil {
		return nil, err
	}
	rng = calendar.NewRange(rng.Start, rng.End)

	unit, err := r.store.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	free, err := r.planner.IsAvailable(ctx, unitID, rng, 0)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, store.ErrDateConflict
	}

	id, err := r.store.CreateBooking(ctx, unitID, requester, rng, false)
	if err != nil {
		return nil, err
	}
	booking, err := r.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	level.Info(r.logger).Log(
		"msg", "booking confirmed",
		"booking", booking.ID,
		"unit", unit.ID,
		"user", requester.UserID,
		"period", rng.String(),
	)
	r.announce(*unit, *booking)
	return &Confirmation{Booking: *booking, Unit: *unit, Status: models.CONFIRMED}, nil
}

// announce notifies the unit admin and the configured admins without
// blocking the request.
func (r *Reservations) announce(unit models.Unit, booking models.Booking) {
	recipients := make([]int64, 0, len(r.admins)+1)
	if unit.AdminID != 0 {
		recipients = append(recipients, unit.AdminID)
	}
	recipients = append(recipients, r.admins...)
	if len(recipients) == 0 || r.notifier == nil {
		return
	}

	rng := booking.Range()
	ev := notify.BookingConfirmed{
		EventID:   uuid.NewString(),
		BookingID: booking.ID,
		UnitID:    unit.ID,
		UnitName:  unit.Name,
		Range:     rng,
		Period:    rng.String(),
		UserID:    booking.Requester.UserID,
		At:        booking.CreatedAt,
	}
	if booking.Requester.Username != nil {
		ev.Username = *booking.Requester.Username
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.notifyTimeout)
		defer cancel()
		notify.Fanout(ctx, r.logger, r.notifier, recipients, ev)
	}()
}

// Wait blocks until in-flight notifications are done.
func (r *Reservations) Wait() {
	r.wg.Wait()
}

// CancelBooking deletes a booking on behalf of its requester.
func (r *Reservations) CancelBooking(ctx context.Context, bookingID uint, requesterID int64) error {
	ctx, span := tracer.Start(ctx, "CancelBooking")
	defer span.End()

	if err := r.store.DeleteBooking(ctx, bookingID, requesterID); err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	level.Info(r.logger).Log("msg", "booking cancelled", "booking", bookingID, "user", requesterID)
	return nil
}

// ToggleDeposit flips the deposit flag of a booking and returns the new
// value. Callers are expected to have checked that the user is an admin.
func (r *Reservations) ToggleDeposit(ctx context.Context, bookingID uint) (bool, error) {
	ctx, span := tracer.Start(ctx, "ToggleDeposit")
	defer span.End()

	paid, err := r.store.ToggleDepositPaid(ctx, bookingID)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return false, err
	}
	level.Info(r.logger).Log("msg", "deposit toggled", "booking", bookingID, "paid", paid)
	return paid, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case errors.Is(err, calendar.ErrInvertedRange), errors.Is(err, calendar.ErrPastDate):
		return "invalid"
	case errors.Is(err, store.ErrDateConflict):
		return "conflict"
	case errors.Is(err, store.ErrUnitNotFound):
		return "not_found"
	default:
		return "error"
	}
}
