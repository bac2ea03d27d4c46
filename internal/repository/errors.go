package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors surfaced by the seat-consuming payment transaction.
var (
	ErrAlreadyPaid      = errors.New("selection already paid")
	ErrNoSeats          = errors.New("no seats available")
	ErrClassNotFound    = errors.New("class not found")
	ErrClassNotApproved = errors.New("class not approved")
	ErrDuplicateEntry   = errors.New("duplicate entry")
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
