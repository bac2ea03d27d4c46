package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

const (
	lockSelectionQuery = `SELECT ` + selectionColumns + ` FROM selected_classes WHERE id = $1 AND email = $2 FOR UPDATE`

	consumeSeatQuery = `UPDATE classes SET available_seats = available_seats - 1, students = students + 1, updated_at = $3
WHERE class_name = $1 AND instructor_email = $2 AND status = 'approved' AND available_seats > 0
RETURNING id, available_seats, students`

	classStatusQuery = `SELECT status FROM classes WHERE class_name = $1 AND instructor_email = $2`

	linkSelectionQuery = `UPDATE selected_classes SET transaction_id = $2, paid_at = $3 WHERE id = $1`

	insertPaymentQuery = `INSERT INTO payments (id, email, selection_id, class_id, class_name, amount, currency, transaction_id, paid_at)
VALUES (:id, :email, :selection_id, :class_id, :class_name, :amount, :currency, :transaction_id, :paid_at)`
)

// PaymentRepository persists payments together with the seat and selection changes they imply.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a payment repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Complete consumes one seat, links the transaction id to the selection and records the payment in a
// single transaction. The selection row lock and the conditional counter update serialise concurrent
// payers of the same class; any failure rolls every step back.
//
// Errors: sql.ErrNoRows when the selection is not owned by the caller, ErrAlreadyPaid, ErrClassNotFound,
// ErrClassNotApproved, ErrNoSeats and ErrDuplicateEntry when the transaction id was already used.
func (r *PaymentRepository) Complete(ctx context.Context, in models.PaymentCompletion) (receipt *models.PaymentReceipt, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin payment tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	var selection models.Selection
	if err = tx.GetContext(ctx, &selection, lockSelectionQuery, in.SelectionID, in.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock selection: %w", err)
	}
	if selection.Paid() {
		return nil, ErrAlreadyPaid
	}

	var seats models.SeatState
	if err = tx.GetContext(ctx, &seats, consumeSeatQuery, selection.ClassName, selection.InstructorEmail, paidAt); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("consume seat: %w", err)
		}
		var status models.ClassStatus
		if err = tx.GetContext(ctx, &status, classStatusQuery, selection.ClassName, selection.InstructorEmail); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrClassNotFound
			}
			return nil, fmt.Errorf("check class: %w", err)
		}
		if status != models.ClassStatusApproved {
			return nil, ErrClassNotApproved
		}
		return nil, ErrNoSeats
	}

	if _, err = tx.ExecContext(ctx, linkSelectionQuery, selection.ID, in.TransactionID, paidAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEntry
		}
		return nil, fmt.Errorf("link selection: %w", err)
	}

	payment := models.Payment{
		ID:            uuid.NewString(),
		Email:         in.Email,
		SelectionID:   selection.ID,
		ClassID:       seats.ClassID,
		ClassName:     selection.ClassName,
		Amount:        in.Amount,
		Currency:      in.Currency,
		TransactionID: in.TransactionID,
		PaidAt:        paidAt,
	}
	if _, err = tx.NamedExecContext(ctx, insertPaymentQuery, payment); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEntry
		}
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment tx: %w", err)
	}

	txID := in.TransactionID
	selection.TransactionID = &txID
	selection.PaidAt = &paidAt
	return &models.PaymentReceipt{Payment: payment, Selection: selection, Seats: seats}, nil
}

// ListByEmail returns the caller's payments, most recent first.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	const query = `SELECT id, email, selection_id, class_id, class_name, amount, currency, transaction_id, paid_at FROM payments WHERE email = $1 ORDER BY paid_at DESC`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, email); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
