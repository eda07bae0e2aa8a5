// Package store persists units and bookings and owns the rule that bookings
// of one unit never overlap.
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dzoniops/booking-service/calendar"
	"github.com/dzoniops/booking-service/models"
)

const (
	MaxPhotos = 10
	MaxVideos = 2
)

type Store struct {
	db    *gorm.DB
	locks *unitLocks
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, locks: newUnitLocks()}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	return wrap("ping", sqlDB.PingContext(ctx))
}

/* ---------- units ---------- */

func (s *Store) CreateUnit(ctx context.Context, name string, adminID int64, description *string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	unit := models.Unit{Name: name, AdminID: adminID, Description: description}
	if err := s.db.WithContext(ctx).Create(&unit).Error; err != nil {
		return 0, wrap("create unit", err)
	}
	return unit.ID, nil
}

func (s *Store) GetUnit(ctx context.Context, id uint) (*models.Unit, error) {
	var unit models.Unit
	err := s.db.WithContext(ctx).First(&unit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, wrap("get unit", err)
	}
	return &unit, nil
}

func (s *Store) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if err := s.db.WithContext(ctx).Order("id").Find(&units).Error; err != nil {
		return nil, wrap("list units", err)
	}
	return units, nil
}

func (s *Store) EditDescription(ctx context.Context, id uint, text string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("id = ?", id).
		Update("description", text)
	if res.Error != nil {
		return wrap("edit description", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUnitNotFound
	}
	return nil
}

// DeleteUnit removes the unit with its bookings and attachments. Deleting an
// unknown unit succeeds.
func (s *Store) DeleteUnit(ctx context.Context, id uint) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("unit_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Unit{}, id).Error
	})
	return wrap("delete unit", err)
}

/* ---------- bookings ---------- */

// CreateBooking inserts a booking if its range is free. The check and the
// insert run under the unit lock and inside one transaction that holds the
// unit row.
func (s *Store) CreateBooking(
	ctx context.Context,
	unitID uint,
	requester models.Requester,
	rng calendar.DateRange,
	depositPaid bool,
) (uint, error) {
	rng = calendar.NewRange(rng.Start, rng.End)
	if rng.Empty() {
		return 0, calendar.ErrInvertedRange
	}

	unlock := s.locks.Lock(unitID)
	defer unlock()

	booking := models.Booking{
		UnitID:      unitID,
		Requester:   requester,
		StartDate:   rng.Start,
		EndDate:     rng.End,
		DepositPaid: depositPaid,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&unit, unitID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		if err != nil {
			return err
		}

		existing, err := listBookings(tx, "unit_id = ?", unitID)
		if err != nil {
			return err
		}
		for _, b := range existing {
			if calendar.Overlaps(b.Range(), rng) {
				return ErrDateConflict
			}
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return 0, wrap("create booking", err)
	}
	return booking.ID, nil
}

// ListBookings returns the bookings of a unit ordered by start date.
func (s *Store) ListBookings(ctx context.Context, unitID uint) ([]models.Booking, error) {
	bookings, err := listBookings(s.db.WithContext(ctx), "unit_id = ?", unitID)
	return bookings, wrap("list bookings", err)
}

// ListBookingsForRequester returns the bookings made by a user ordered by
// start date.
func (s *Store) ListBookingsForRequester(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := listBookings(s.db.WithContext(ctx), "requester_user_id = ?", userID)
	return bookings, wrap("list requester bookings", err)
}

func listBookings(db *gorm.DB, query string, args ...any) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Where(query, args...).Order("start_date, id").Find(&bookings).Error
	return bookings, err
}

func (s *Store) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get booking", err)
	}
	return &booking, nil
}

func (s *Store) SetDepositPaid(ctx context.Context, id uint, paid bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("deposit_paid", paid)
	if res.Error != nil {
		return wrap("set deposit", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleDepositPaid flips the deposit flag and returns the new value.
func (s *Store) ToggleDepositPaid(ctx context.Context, id uint) (bool, error) {
	var paid bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		paid = !booking.DepositPaid
		return tx.Model(&booking).Update("deposit_paid", paid).Error
	})
	if err != nil {
		return false, wrap("toggle deposit", err)
	}
	return paid, nil
}

// DeleteBooking removes a booking owned by requesterID. A booking owned by
// someone else is reported as ErrNotFound.
func (s *Store) DeleteBooking(ctx context.Context, id uint, requesterID int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND requester_user_id = ?", id, requesterID).
		Delete(&models.Booking{})
	if res.Error != nil {
		return wrap("delete booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* ---------- attachments ---------- */

func (s *Store) AddAttachment(ctx context.Context, unitID uint, kind models.AttachmentKind, fileID string) (uint, error) {
	limit := MaxPhotos
	if kind == models.VIDEO {
		limit = MaxVideos
	}

	unlock := s.locks.Lock(unitID)
	defer unlock()

	att := models.Attachment{UnitID: unitID, Kind: kind, FileID: fileID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&unit, unitID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Attachment{}).
			Where("unit_id = ? AND kind = ?", unitID, kind).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrAttachmentLimit
		}
		return tx.Create(&att).Error
	})
	if err != nil {
		return 0, wrap("add attachment", err)
	}
	return att.ID, nil
}

func (s *Store) ListAttachments(ctx context.Context, unitID uint, kind models.AttachmentKind) ([]models.Attachment, error) {
	var out []models.Attachment
	err := s.db.WithContext(ctx).
		Where("unit_id = ? AND kind = ?", unitID, kind).
		Order("id").
		Find(&out).Error
	return out, wrap("list attachments", err)
}

func (s *Store) DeleteAttachment(ctx context.Context, unitID uint, fileID string) error {
	res := s.db.WithContext(ctx).
		Where("unit_id = ? AND file_id = ?", unitID, fileID).
		Delete(&models.Attachment{})
	if res.Error != nil {
		return wrap("delete attachment", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoAttachment
	}
	return nil
}

/* ---------- statistics ---------- */

// Statistics counts bookings and paid deposits per unit.
func (s *Store) Statistics(ctx context.Context) ([]models.UnitStats, error) {
	var stats []models.UnitStats
	err := s.db.WithContext(ctx).
		Model(&models.Unit{}).
		Select(`units.id AS unit_id, units.name AS name,
			COUNT(bookings.id) AS bookings,
			COALESCE(SUM(CASE WHEN bookings.deposit_paid THEN 1 ELSE 0 END), 0) AS paid`).
		Joins("LEFT JOIN bookings ON bookings.unit_id = units.id").
		Group("units.id, units.name").
		Order("units.id").
		Scan(&stats).Error
	return stats, wrap("statistics", err)
}
