package bookingpb

// Dates travel as DD.MM.YYYY strings.

type DateRange struct {
	Start string `json:"start" validate:"required,ddmmyyyy"`
	End   string `json:"end"   validate:"required,ddmmyyyy"`
}

type Unit struct {
	Id          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AdminId     int64  `json:"admin_id"`
	CreatedAt   string `json:"created_at"`
}

type Booking struct {
	Id          uint64    `json:"id"`
	UnitId      uint64    `json:"unit_id"`
	UserId      int64     `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Range       DateRange `json:"range"`
	DepositPaid bool      `json:"deposit_paid"`
	CreatedAt   string    `json:"created_at"`
}

type UnitStats struct {
	UnitId   uint64 `json:"unit_id"`
	Name     string `json:"name"`
	Bookings int64  `json:"bookings"`
	Paid     int64  `json:"paid"`
}

type IdRequest struct {
	Id uint64 `json:"id" validate:"required"`
}

type CreateUnitRequest struct {
	Name        string `json:"name"        validate:"required"`
	AdminId     int64  `json:"admin_id"    validate:"required"`
	Description string `json:"description"`
}

type CreateUnitResponse struct {
	UnitId uint64 `json:"unit_id"`
}

type EditDescriptionRequest struct {
	UnitId      uint64 `json:"unit_id"     validate:"required"`
	Description string `json:"description" validate:"required"`
}

type ListUnitsResponse struct {
	Units []*Unit `json:"units"`
}

type RequestBookingRequest struct {
	UnitId    uint64 `json:"unit_id"    validate:"required"`
	UserId    int64  `json:"user_id"    validate:"required"`
	Username  string `json:"username"`
	Phone     string `json:"phone"      validate:"omitempty,max=32"`
	StartDate string `json:"start_date" validate:"required,ddmmyyyy"`
	EndDate   string `json:"end_date"   validate:"required,ddmmyyyy"`
}

// Booking outcomes.
const (
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Rejection reasons.
const (
	ReasonInvertedRange = "inverted_range"
	ReasonPastDate      = "past_date"
	ReasonDateConflict  = "date_conflict"
)

type RequestBookingResponse struct {
	BookingId    uint64       `json:"booking_id,omitempty"`
	Status       string       `json:"status"`
	Reason       string       `json:"reason,omitempty"`
	Message      string       `json:"message"`
	Alternatives []*DateRange `json:"alternatives,omitempty"`
}

type CancelBookingRequest struct {
	BookingId uint64 `json:"booking_id" validate:"required"`
	UserId    int64  `json:"user_id"    validate:"required"`
}

type ToggleDepositResponse struct {
	BookingId   uint64 `json:"booking_id"`
	DepositPaid bool   `json:"deposit_paid"`
}

type ListBookingsRequest struct {
	UnitId uint64 `json:"unit_id" validate:"required"`
}

type RequesterRequest struct {
	UserId int64 `json:"user_id" validate:"required"`
}

type BookingsResponse struct {
	Bookings []*Booking `json:"bookings"`
}

type FreeRangesRequest struct {
	UnitId uint64    `json:"unit_id" validate:"required"`
	Range  DateRange `json:"range"`
}

type SuggestRequest struct {
	UnitId      uint64    `json:"unit_id"      validate:"required"`
	Range       DateRange `json:"range"`
	HorizonDays int32     `json:"horizon_days" validate:"gte=0"`
	Limit       int32     `json:"limit"        validate:"gte=0"`
}

type RangesResponse struct {
	Ranges []*DateRange `json:"ranges"`
}

type AttachmentRequest struct {
	UnitId uint64 `json:"unit_id" validate:"required"`
	Kind   string `json:"kind"    validate:"required,oneof=photo video"`
	FileId string `json:"file_id" validate:"required"`
}

type ListAttachmentsRequest struct {
	UnitId uint64 `json:"unit_id" validate:"required"`
	Kind   string `json:"kind"    validate:"required,oneof=photo video"`
}

type AttachmentsResponse struct {
	FileIds []string `json:"file_ids"`
}

type StatisticsResponse struct {
	Units []*UnitStats `json:"units"`
}
