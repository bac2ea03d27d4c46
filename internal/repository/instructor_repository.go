package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

// InstructorRepository reads instructor profiles with enrolment aggregates.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an instructor repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// List returns instructors ordered by total students across their approved classes.
func (r *InstructorRepository) List(ctx context.Context, limit int) ([]models.Instructor, error) {
	query := `SELECT u.email, u.name, u.photo_url,
	COUNT(c.id) AS classes,
	COALESCE(SUM(c.students), 0) AS students
FROM users u
LEFT JOIN classes c ON c.instructor_email = u.email AND c.status = 'approved'
WHERE u.role = 'instructor'
GROUP BY u.email, u.name, u.photo_url
ORDER BY students DESC, u.email ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}
