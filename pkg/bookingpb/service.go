package bookingpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "booking.BookingService"

type BookingServiceServer interface {
	CreateUnit(context.Context, *CreateUnitRequest) (*CreateUnitResponse, error)
	DeleteUnit(context.Context, *IdRequest) (*emptypb.Empty, error)
	EditDescription(context.Context, *EditDescriptionRequest) (*emptypb.Empty, error)
	ListUnits(context.Context, *emptypb.Empty) (*ListUnitsResponse, error)
	GetUnit(context.Context, *IdRequest) (*Unit, error)
	RequestBooking(context.Context, *RequestBookingRequest) (*RequestBookingResponse, error)
	CancelBooking(context.Context, *CancelBookingRequest) (*emptypb.Empty, error)
	ToggleDeposit(context.Context, *IdRequest) (*ToggleDepositResponse, error)
	GetBooking(context.Context, *IdRequest) (*Booking, error)
	ListBookings(context.Context, *ListBookingsRequest) (*BookingsResponse, error)
	ListBookingsForRequester(context.Context, *RequesterRequest) (*BookingsResponse, error)
	FreeRanges(context.Context, *FreeRangesRequest) (*RangesResponse, error)
	SuggestAlternatives(context.Context, *SuggestRequest) (*RangesResponse, error)
	AddAttachment(context.Context, *AttachmentRequest) (*emptypb.Empty, error)
	ListAttachments(context.Context, *ListAttachmentsRequest) (*AttachmentsResponse, error)
	DeleteAttachment(context.Context, *AttachmentRequest) (*emptypb.Empty, error)
	Statistics(context.Context, *emptypb.Empty) (*StatisticsResponse, error)
}

// UnimplementedBookingServiceServer can be embedded to keep servers
// compiling when methods are added.
type UnimplementedBookingServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedBookingServiceServer) CreateUnit(context.Context, *CreateUnitRequest) (*CreateUnitResponse, error) {
	return nil, unimplemented("CreateUnit")
}
func (UnimplementedBookingServiceServer) DeleteUnit(context.Context, *IdRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("DeleteUnit")
}
func (UnimplementedBookingServiceServer) EditDescription(context.Context, *EditDescriptionRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("EditDescription")
}
func (UnimplementedBookingServiceServer) ListUnits(context.Context, *emptypb.Empty) (*ListUnitsResponse, error) {
	return nil, unimplemented("ListUnits")
}
func (UnimplementedBookingServiceServer) GetUnit(context.Context, *IdRequest) (*Unit, error) {
	return nil, unimplemented("GetUnit")
}
func (UnimplementedBookingServiceServer) RequestBooking(context.Context, *RequestBookingRequest) (*RequestBookingResponse, error) {
	return nil, unimplemented("RequestBooking")
}
func (UnimplementedBookingServiceServer) CancelBooking(context.Context, *CancelBookingRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("CancelBooking")
}
func (UnimplementedBookingServiceServer) ToggleDeposit(context.Context, *IdRequest) (*ToggleDepositResponse, error) {
	return nil, unimplemented("ToggleDeposit")
}
func (UnimplementedBookingServiceServer) GetBooking(context.Context, *IdRequest) (*Booking, error) {
	return nil, unimplemented("GetBooking")
}
func (UnimplementedBookingServiceServer) ListBookings(context.Context, *ListBookingsRequest) (*BookingsResponse, error) {
	return nil, unimplemented("ListBookings")
}
func (UnimplementedBookingServiceServer) ListBookingsForRequester(context.Context, *RequesterRequest) (*BookingsResponse, error) {
	return nil, unimplemented("ListBookingsForRequester")
}
func (UnimplementedBookingServiceServer) FreeRanges(context.Context, *FreeRangesRequest) (*RangesResponse, error) {
	return nil, unimplemented("FreeRanges")
}
func (UnimplementedBookingServiceServer) SuggestAlternatives(context.Context, *SuggestRequest) (*RangesResponse, error) {
	return nil, unimplemented("SuggestAlternatives")
}
func (UnimplementedBookingServiceServer) AddAttachment(context.Context, *AttachmentRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("AddAttachment")
}
func (UnimplementedBookingServiceServer) ListAttachments(context.Context, *ListAttachmentsRequest) (*AttachmentsResponse, error) {
	return nil, unimplemented("ListAttachments")
}
func (UnimplementedBookingServiceServer) DeleteAttachment(context.Context, *AttachmentRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("DeleteAttachment")
}
func (UnimplementedBookingServiceServer) Statistics(context.Context, *emptypb.Empty) (*StatisticsResponse, error) {
	return nil, unimplemented("Statistics")
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingService_ServiceDesc, srv)
}

// unary builds the method descriptor for one request/response call.
func unary[Req, Resp any](
	name string,
	call func(BookingServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(
			srv any,
			ctx context.Context,
			dec func(any) error,
			interceptor grpc.UnaryServerInterceptor,
		) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BookingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BookingServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var BookingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateUnit", BookingServiceServer.CreateUnit),
		unary("DeleteUnit", BookingServiceServer.DeleteUnit),
		unary("EditDescription", BookingServiceServer.EditDescription),
		unary("ListUnits", BookingServiceServer.ListUnits),
		unary("GetUnit", BookingServiceServer.GetUnit),
		unary("RequestBooking", BookingServiceServer.RequestBooking),
		unary("CancelBooking", BookingServiceServer.CancelBooking),
		unary("ToggleDeposit", BookingServiceServer.ToggleDeposit),
		unary("GetBooking", BookingServiceServer.GetBooking),
		unary("ListBookings", BookingServiceServer.ListBookings),
		unary("ListBookingsForRequester", BookingServiceServer.ListBookingsForRequester),
		unary("FreeRanges", BookingServiceServer.FreeRanges),
		unary("SuggestAlternatives", BookingServiceServer.SuggestAlternatives),
		unary("AddAttachment", BookingServiceServer.AddAttachment),
		unary("ListAttachments", BookingServiceServer.ListAttachments),
		unary("DeleteAttachment", BookingServiceServer.DeleteAttachment),
		unary("Statistics", BookingServiceServer.Statistics),
	},
	Streams: []grpc.StreamDesc{},
}
