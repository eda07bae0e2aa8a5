package bookingpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

type BookingServiceClient interface {
	CreateUnit(ctx context.Context, in *CreateUnitRequest, opts ...grpc.CallOption) (*CreateUnitResponse, error)
	DeleteUnit(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	EditDescription(ctx context.Context, in *EditDescriptionRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListUnits(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListUnitsResponse, error)
	GetUnit(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*Unit, error)
	RequestBooking(ctx context.Context, in *RequestBookingRequest, opts ...grpc.CallOption) (*RequestBookingResponse, error)
	CancelBooking(ctx context.Context, in *CancelBookingRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ToggleDeposit(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*ToggleDepositResponse, error)
	GetBooking(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*Booking, error)
	ListBookings(ctx context.Context, in *ListBookingsRequest, opts ...grpc.CallOption) (*BookingsResponse, error)
	ListBookingsForRequester(ctx context.Context, in *RequesterRequest, opts ...grpc.CallOption) (*BookingsResponse, error)
	FreeRanges(ctx context.Context, in *FreeRangesRequest, opts ...grpc.CallOption) (*RangesResponse, error)
	SuggestAlternatives(ctx context.Context, in *SuggestRequest, opts ...grpc.CallOption) (*RangesResponse, error)
	AddAttachment(ctx context.Context, in *AttachmentRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListAttachments(ctx context.Context, in *ListAttachmentsRequest, opts ...grpc.CallOption) (*AttachmentsResponse, error)
	DeleteAttachment(ctx context.Context, in *AttachmentRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Statistics(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StatisticsResponse, error)
}

type bookingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) BookingServiceClient {
	return &bookingServiceClient{cc}
}

// invoke performs a unary call using the JSON content subtype.
func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) CreateUnit(ctx context.Context, in *CreateUnitRequest, opts ...grpc.CallOption) (*CreateUnitResponse, error) {
	return invoke[CreateUnitResponse](ctx, c.cc, "CreateUnit", in, opts)
}

func (c *bookingServiceClient) DeleteUnit(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "DeleteUnit", in, opts)
}

func (c *bookingServiceClient) EditDescription(ctx context.Context, in *EditDescriptionRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "EditDescription", in, opts)
}

func (c *bookingServiceClient) ListUnits(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListUnitsResponse, error) {
	return invoke[ListUnitsResponse](ctx, c.cc, "ListUnits", in, opts)
}

func (c *bookingServiceClient) GetUnit(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*Unit, error) {
	return invoke[Unit](ctx, c.cc, "GetUnit", in, opts)
}

func (c *bookingServiceClient) RequestBooking(ctx context.Context, in *RequestBookingRequest, opts ...grpc.CallOption) (*RequestBookingResponse, error) {
	return invoke[RequestBookingResponse](ctx, c.cc, "RequestBooking", in, opts)
}

func (c *bookingServiceClient) CancelBooking(ctx context.Context, in *CancelBookingRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "CancelBooking", in, opts)
}

func (c *bookingServiceClient) ToggleDeposit(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*ToggleDepositResponse, error) {
	return invoke[ToggleDepositResponse](ctx, c.cc, "ToggleDeposit", in, opts)
}

func (c *bookingServiceClient) GetBooking(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*Booking, error) {
	return invoke[Booking](ctx, c.cc, "GetBooking", in, opts)
}

func (c *bookingServiceClient) ListBookings(ctx context.Context, in *ListBookingsRequest, opts ...grpc.CallOption) (*BookingsResponse, error) {
	return invoke[BookingsResponse](ctx, c.cc, "ListBookings", in, opts)
}

func (c *bookingServiceClient) ListBookingsForRequester(ctx context.Context, in *RequesterRequest, opts ...grpc.CallOption) (*BookingsResponse, error) {
	return invoke[BookingsResponse](ctx, c.cc, "ListBookingsForRequester", in, opts)
}

func (c *bookingServiceClient) FreeRanges(ctx context.Context, in *FreeRangesRequest, opts ...grpc.CallOption) (*RangesResponse, error) {
	return invoke[RangesResponse](ctx, c.cc, "FreeRanges", in, opts)
}

func (c *bookingServiceClient) SuggestAlternatives(ctx context.Context, in *SuggestRequest, opts ...grpc.CallOption) (*RangesResponse, error) {
	return invoke[RangesResponse](ctx, c.cc, "SuggestAlternatives", in, opts)
}

func (c *bookingServiceClient) AddAttachment(ctx context.Context, in *AttachmentRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "AddAttachment", in, opts)
}

func (c *bookingServiceClient) ListAttachments(ctx context.Context, in *ListAttachmentsRequest, opts ...grpc.CallOption) (*AttachmentsResponse, error) {
	return invoke[AttachmentsResponse](ctx, c.cc, "ListAttachments", in, opts)
}

func (c *bookingServiceClient) DeleteAttachment(ctx context.Context, in *AttachmentRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "DeleteAttachment", in, opts)
}

func (c *bookingServiceClient) Statistics(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StatisticsResponse, error) {
	return invoke[StatisticsResponse](ctx, c.cc, "Statistics", in, opts)
}
