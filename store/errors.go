package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnitNotFound    = errors.New("unit not found")
	ErrNotFound        = errors.New("booking not found")
	ErrNoAttachment    = errors.New("attachment not found")
	ErrDateConflict    = errors.New("dates overlap an existing booking")
	ErrEmptyName       = errors.New("unit name is empty")
	ErrAttachmentLimit = errors.New("attachment limit reached")
)

// StorageError is a persistence failure that is not one of the expected
// outcomes above.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// exclusionViolation is the postgres code raised by bookings_no_overlap.
const exclusionViolation = "23P01"

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return ErrDateConflict
	}
	for _, sentinel := range []error{ErrUnitNotFound, ErrNotFound, ErrNoAttachment, ErrDateConflict, ErrEmptyName, ErrAttachmentLimit} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}
