package models

import (
	"time"
)

type Unit struct {
	ID          uint         `json:"id"          gorm:"primaryKey"`
	Name        string       `json:"name"        gorm:"not null"     validate:"required"`
	Description *string      `json:"description"`
	AdminID     int64        `json:"admin_id"    gorm:"index"`
	CreatedAt   time.Time    `json:"created_at"`
	Bookings    []Booking    `json:"-"           gorm:"constraint:OnDelete:CASCADE"`
	Attachments []Attachment `json:"-"           gorm:"constraint:OnDelete:CASCADE"`
}

// UnitStats summarises bookings of one unit.
type UnitStats struct {
	UnitID   uint   `json:"unit_id"`
	Name     string `json:"name"`
	Bookings int64  `json:"bookings"`
	Paid     int64  `json:"paid"`
}
