package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/models"
	pb "github.com/dzoniops/booking-service/pkg/bookingpb"
	"github.com/dzoniops/booking-service/planner"
	"github.com/dzoniops/booking-service/store"
	"github.com/dzoniops/booking-service/utils"
)

// Store is everything the gRPC server needs from persistence.
type Store interface {
	BookingStore
	CreateUnit(ctx context.Context, name string, adminID int64, description *string) (uint, error)
	DeleteUnit(ctx context.Context, id uint) error
	EditDescription(ctx context.Context, id uint, text string) error
	ListUnits(ctx context.Context) ([]models.Unit, error)
	ListBookingsForRequester(ctx context.Context, userID int64) ([]models.Booking, error)
	AddAttachment(ctx context.Context, unitID uint, kind models.AttachmentKind, fileID string) (uint, error)
	ListAttachments(ctx context.Context, unitID uint, kind models.AttachmentKind) ([]models.Attachment, error)
	DeleteAttachment(ctx context.Context, unitID uint, fileID string) error
	Statistics(ctx context.Context) ([]models.UnitStats, error)
}

type Server struct {
	pb.UnimplementedBookingServiceServer
	Store        Store
	Planner      *planner.Planner
	Reservations *Reservations
	Logger       log.Logger
	// Now returns the current time; the calendar day is taken from it.
	Now func() time.Time
}

func (s *Server) today() time.Time {
	if s.Now != nil {
		return calendar.Truncate(s.Now())
	}
	return calendar.Truncate(time.Now())
}

func validate(req any) error {
	if utils.Validate == nil {
		utils.InitValidator()
	}
	if err := utils.Validate.Struct(req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

/* ---------- units ---------- */

func (s *Server) CreateUnit(ctx context.Context, req *pb.CreateUnitRequest) (*pb.CreateUnitResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var desc *string
	if req.Description != "" {
		desc = &req.Description
	}
	id, err := s.Store.CreateUnit(ctx, req.Name, req.AdminId, desc)
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &pb.CreateUnitResponse{UnitId: uint64(id)}, nil
}

func (s *Server) DeleteUnit(ctx context.Context, req *pb.IdRequest) (*emptypb.Empty, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.Store.DeleteUnit(ctx, uint(req.Id)); err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) EditDescription(ctx context.Context, req *pb.EditDescriptionRequest) (*emptypb.Empty, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.Store.EditDescription(ctx, uint(req.UnitId), req.Description); err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) ListUnits(ctx context.Context, _ *emptypb.Empty) (*pb.ListUnitsResponse, error) {
	units, err := s.Store.ListUnits(ctx)
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	out := make([]*pb.Unit, len(units))
	for i := range units {
		out[i] = mapUnit(units[i])
	}
	return &pb.ListUnitsResponse{Units: out}, nil
}

func (s *Server) GetUnit(ctx context.Context, req *pb.IdRequest) (*pb.Unit, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	unit, err := s.Store.GetUnit(ctx, uint(req.Id))
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return mapUnit(*unit), nil
}

/* ---------- bookings ---------- */

func (s *Server) RequestBooking(ctx context.Context, req *pb.RequestBookingRequest) (*pb.RequestBookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	rng, err := parseRange(pb.DateRange{Start: req.StartDate, End: req.EndDate})
	if err != nil {
		return nil, err
	}
	requester := models.Requester{UserID: req.UserId}
	if req.Username != "" {
		requester.Username = &req.Username
	}
	if req.Phone != "" {
		requester.Phone = &req.Phone
	}

	conf, err := s.Reservations.RequestBooking(ctx, uint(req.UnitId), requester, rng, s.today())
	switch {
	case err == nil:
		return &pb.RequestBookingResponse{
			BookingId: uint64(conf.Booking.ID),
			Status:    conf.Status.String(),
			Message:   conf.Unit.Name + ": " + conf.Booking.Range().String(),
		}, nil
	case errors.Is(err, calendar.ErrInvertedRange):
		return rejected(pb.ReasonInvertedRange, err, nil), nil
	case errors.Is(err, calendar.ErrPastDate):
		return rejected(pb.ReasonPastDate, err, nil), nil
	case errors.Is(err, store.ErrDateConflict):
		alternatives, err2 := s.Planner.SuggestAfterConflict(ctx, uint(req.UnitId), rng)
		if err2 != nil {
			return nil, s.statusFromDomainError(err2)
		}
		return rejected(pb.ReasonDateConflict, err, alternatives), nil
	default:
		return nil, s.statusFromDomainError(err)
	}
}

func rejected(reason string, err error, alternatives []calendar.DateRange) *pb.RequestBookingResponse {
	return &pb.RequestBookingResponse{
		Status:       models.REJECTED.String(),
		Reason:       reason,
		Message:      err.Error(),
		Alternatives: mapRanges(alternatives),
	}
}

func (s *Server) CancelBooking(ctx context.Context, req *pb.CancelBookingRequest) (*emptypb.Empty, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.Reservations.CancelBooking(ctx, uint(req.BookingId), req.UserId); err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) ToggleDeposit(ctx context.Context, req *pb.IdRequest) (*pb.ToggleDepositResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	paid, err := s.Reservations.ToggleDeposit(ctx, uint(req.Id))
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &pb.ToggleDepositResponse{BookingId: req.Id, DepositPaid: paid}, nil
}

func (s *Server) GetBooking(ctx context.Context, req *pb.IdRequest) (*pb.Booking, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	booking, err := s.Store.GetBooking(ctx, uint(req.Id))
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return mapBooking(*booking), nil
}

func (s *Server) ListBookings(ctx context.Context, req *pb.ListBookingsRequest) (*pb.BookingsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	bookings, err := s.Store.ListBookings(ctx, uint(req.UnitId))
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &pb.BookingsResponse{Bookings: mapBookings(bookings)}, nil
}

func (s *Server) ListBookingsForRequester(ctx context.Context, req *pb.RequesterRequest) (*pb.BookingsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	bookings, err := s.Store.ListBookingsForRequester(ctx, req.UserId)
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &pb.BookingsResponse{Bookings: mapBookings(bookings)}, nil
}

/* ---------- availability ---------- */

func (s *Server) FreeRanges(ctx context.Context, req *pb.FreeRangesRequest) (*pb.RangesResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	rng, err := parseRange(req.Range)
	if err != nil {
		return nil, err
	}
	if rng.Empty() {
		return nil, status.Error(codes.InvalidArgument, calendar.ErrInvertedRange.Error())
	}
	free, err := s.Planner.FreeRanges(ctx, uint(req.UnitId), rng)
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &pb.RangesResponse{Ranges: mapRanges(free)}, nil
}

func (s *Server) SuggestAlternatives(ctx context.Context, req *pb.SuggestRequest) (*pb.RangesResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	rng, err := parseRange(req.Range)
	if err != nil {
		return nil, err
	}
	free, err := s.Planner.Suggest(ctx, uint(req.UnitId), rng, int(req.HorizonDays), int(req.Limit))
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &pb.RangesResponse{Ranges: mapRanges(free)}, nil
}

/* ---------- attachments ---------- */

func (s *Server) AddAttachment(ctx context.Context, req *pb.AttachmentRequest) (*emptypb.Empty, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Store.AddAttachment(ctx, uint(req.UnitId), models.AttachmentKind(req.Kind), req.FileId); err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) ListAttachments(ctx context.Context, req *pb.ListAttachmentsRequest) (*pb.AttachmentsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	atts, err := s.Store.ListAttachments(ctx, uint(req.UnitId), models.AttachmentKind(req.Kind))
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	ids := make([]string, len(atts))
	for i := range atts {
		ids[i] = atts[i].FileID
	}
	return &pb.AttachmentsResponse{FileIds: ids}, nil
}

func (s *Server) DeleteAttachment(ctx context.Context, req *pb.AttachmentRequest) (*emptypb.Empty, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.Store.DeleteAttachment(ctx, uint(req.UnitId), req.FileId); err != nil {
		return nil, s.statusFromDomainError(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Statistics(ctx context.Context, _ *emptypb.Empty) (*pb.StatisticsResponse, error) {
	stats, err := s.Store.Statistics(ctx)
	if err != nil {
		return nil, s.statusFromDomainError(err)
	}
	out := make([]*pb.UnitStats, len(stats))
	for i, st := range stats {
		out[i] = &pb.UnitStats{UnitId: uint64(st.UnitID), Name: st.Name, Bookings: st.Bookings, Paid: st.Paid}
	}
	return &pb.StatisticsResponse{Units: out}, nil
}

/* ---------- mapping ---------- */

func (s *Server) statusFromDomainError(err error) error {
	switch {
	case errors.Is(err, store.ErrUnitNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrNoAttachment):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, store.ErrEmptyName),
		errors.Is(err, calendar.ErrInvertedRange),
		errors.Is(err, calendar.ErrPastDate),
		errors.Is(err, calendar.ErrBadFormat):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, store.ErrDateConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, store.ErrAttachmentLimit):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		if s.Logger != nil {
			level.Error(s.Logger).Log("msg", "request failed", "err", err)
		}
		return status.Error(codes.Internal, "internal error")
	}
}

func parseRange(r pb.DateRange) (calendar.DateRange, error) {
	start, err := calendar.ParseDate(r.Start)
	if err != nil {
		return calendar.DateRange{}, status.Error(codes.InvalidArgument, err.Error())
	}
	end, err := calendar.ParseDate(r.End)
	if err != nil {
		return calendar.DateRange{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return calendar.DateRange{Start: start, End: end}, nil
}

func mapRange(r calendar.DateRange) *pb.DateRange {
	return &pb.DateRange{Start: calendar.FormatDate(r.Start), End: calendar.FormatDate(r.End)}
}

func mapRanges(in []calendar.DateRange) []*pb.DateRange {
	if len(in) == 0 {
		return nil
	}
	out := make([]*pb.DateRange, len(in))
	for i := range in {
		out[i] = mapRange(in[i])
	}
	return out
}

func mapUnit(u models.Unit) *pb.Unit {
	out := &pb.Unit{
		Id:        uint64(u.ID),
		Name:      u.Name,
		AdminId:   u.AdminID,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.Description != nil {
		out.Description = *u.Description
	}
	return out
}

func mapBooking(b models.Booking) *pb.Booking {
	out := &pb.Booking{
		Id:          uint64(b.ID),
		UnitId:      uint64(b.UnitID),
		UserId:      b.Requester.UserID,
		Range:       *mapRange(b.Range()),
		DepositPaid: b.DepositPaid,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.Requester.Username != nil {
		out.Username = *b.Requester.Username
	}
	if b.Requester.Phone != nil {
		out.Phone = *b.Requester.Phone
	}
	return out
}

func mapBookings(in []models.Booking) []*pb.Booking {
	out := make([]*pb.Booking, len(in))
	for i := range in {
		out[i] = mapBooking(in[i])
	}
	return out
}
