package models

import (
	"time"

	"github.com/dzoniops/booking-service/calendar"
)

type Booking struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	UnitID      uint      `json:"unit_id"      gorm:"index;not null"`
	Requester   Requester `json:"requester"    gorm:"embedded;embeddedPrefix:requester_"`
	StartDate   time.Time `json:"start_date"   gorm:"type:date;not null"`
	EndDate     time.Time `json:"end_date"     gorm:"type:date;not null"`
	DepositPaid bool      `json:"deposit_paid" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// Requester identifies the guest who asked for a booking.
type Requester struct {
	UserID   int64   `json:"user_id"  gorm:"index;not null"`
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
}

func (b Booking) Range() calendar.DateRange {
	return calendar.NewRange(b.StartDate, b.EndDate)
}

type BookingStatus int32

const (
	UNSPECIFIED BookingStatus = 0
	REQUESTED   BookingStatus = 1
	CONFIRMED   BookingStatus = 2
	REJECTED    BookingStatus = 3
	CANCELLED   BookingStatus = 4
)

func (s BookingStatus) String() string {
	switch s {
	case REQUESTED:
		return "requested"
	case CONFIRMED:
		return "confirmed"
	case REJECTED:
		return "rejected"
	case CANCELLED:
		return "cancelled"
	default:
		return "unspecified"
	}
}

// CanTransition reports whether a booking may move from s to next.
// Rejected and cancelled are terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case REQUESTED:
		return next == CONFIRMED || next == REJECTED
	case CONFIRMED:
		return next == CANCELLED
	default:
		return false
	}
}
