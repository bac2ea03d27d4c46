package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

const selectionColumns = `id, email, class_id, class_name, instructor_email, image_url, price, transaction_id, created_at, paid_at`

// SelectionRepository stores the per-user selected classes.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository constructs a selection repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// ListByEmail returns every selection owned by email, newest first.
func (r *SelectionRepository) ListByEmail(ctx context.Context, email string) ([]models.Selection, error) {
	const query = `SELECT ` + selectionColumns + ` FROM selected_classes WHERE email = $1 ORDER BY created_at DESC`
	var selections []models.Selection
	if err := r.db.SelectContext(ctx, &selections, query, email); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return selections, nil
}

// ListPaidByEmail returns the selections that have a linked payment.
func (r *SelectionRepository) ListPaidByEmail(ctx context.Context, email string) ([]models.Selection, error) {
	const query = `SELECT ` + selectionColumns + ` FROM selected_classes WHERE email = $1 AND transaction_id IS NOT NULL ORDER BY paid_at DESC`
	var selections []models.Selection
	if err := r.db.SelectContext(ctx, &selections, query, email); err != nil {
		return nil, fmt.Errorf("list paid selections: %w", err)
	}
	return selections, nil
}

// Exists reports whether email already selected a class with this name.
func (r *SelectionRepository) Exists(ctx context.Context, email, className string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM selected_classes WHERE email = $1 AND class_name = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, className); err != nil {
		return false, fmt.Errorf("check selection: %w", err)
	}
	return exists, nil
}

// Create inserts a pending selection. A concurrent duplicate surfaces as ErrDuplicateEntry.
func (r *SelectionRepository) Create(ctx context.Context, selection *models.Selection) error {
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}
	selection.CreatedAt = time.Now().UTC()
	selection.TransactionID = nil
	selection.PaidAt = nil

	const query = `INSERT INTO selected_classes (id, email, class_id, class_name, instructor_email, image_url, price, transaction_id, created_at, paid_at)
VALUES (:id, :email, :class_id, :class_name, :instructor_email, :image_url, :price, :transaction_id, :created_at, :paid_at)`
	if _, err := r.db.NamedExecContext(ctx, query, selection); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("create selection: %w", err)
	}
	return nil
}

// DeletePending removes an unpaid selection owned by email and returns the number of removed rows.
func (r *SelectionRepository) DeletePending(ctx context.Context, id, email string) (int64, error) {
	const query = `DELETE FROM selected_classes WHERE id = $1 AND email = $2 AND transaction_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, email)
	if err != nil {
		return 0, fmt.Errorf("delete selection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete selection rows affected: %w", err)
	}
	return affected, nil
}
