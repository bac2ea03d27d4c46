package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

const classColumns = `id, class_name, image_url, instructor_name, instructor_email, price, available_seats, students, status, feedback, created_at, updated_at`

// ClassRepository handles persistence for classes. Seat counters are only changed by PaymentRepository.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching the filter ordered by enrolment, most popular first.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	var conditions []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.InstructorEmail != "" {
		args = append(args, filter.InstructorEmail)
		conditions = append(conditions, fmt.Sprintf("instructor_email = $%d", len(args)))
	}

	query := `SELECT ` + classColumns + ` FROM classes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY students DESC, created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID retrieves a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT ` + classColumns + ` FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &class, nil
}

// Create inserts a new class. ErrDuplicateEntry is returned when the instructor already has a class with that name.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, class_name, image_url, instructor_name, instructor_email, price, available_seats, students, status, feedback, created_at, updated_at)
VALUES (:id, :class_name, :image_url, :instructor_name, :instructor_email, :price, :available_seats, :students, :status, :feedback, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// UpdateStatus changes the moderation status. sql.ErrNoRows is returned when the class is unknown.
func (r *ClassRepository) UpdateStatus(ctx context.Context, id string, status models.ClassStatus) (*models.Class, error) {
	const query = `UPDATE classes SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + classColumns
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id, status, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update class status: %w", err)
	}
	return &class, nil
}

// UpdateFeedback stores admin feedback for a class.
func (r *ClassRepository) UpdateFeedback(ctx context.Context, id, feedback string) (*models.Class, error) {
	const query = `UPDATE classes SET feedback = $2, updated_at = $3 WHERE id = $1 RETURNING ` + classColumns
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id, feedback, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update class feedback: %w", err)
	}
	return &class, nil
}
