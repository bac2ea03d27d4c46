package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/repository"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

// MessageAlreadySelected is returned when a class is selected twice.
const MessageAlreadySelected = "class already selected"

type selectionRepository interface {
	ListByEmail(ctx context.Context, email string) ([]models.Selection, error)
	ListPaidByEmail(ctx context.Context, email string) ([]models.Selection, error)
	Exists(ctx context.Context, email, className string) (bool, error)
	Create(ctx context.Context, selection *models.Selection) error
	DeletePending(ctx context.Context, id, email string) (int64, error)
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// SelectionService owns the per-user selected classes.
type SelectionService struct {
	selections selectionRepository
	classes    classFinder
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(selections selectionRepository, classes classFinder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{selections: selections, classes: classes, metrics: metrics, validator: validate, logger: logger}
}

// List returns the selections owned by email. An empty email yields an empty list.
func (s *SelectionService) List(ctx context.Context, email string) ([]models.Selection, error) {
	if email == "" {
		return []models.Selection{}, nil
	}
	selections, err := s.selections.ListByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to list selections")
	}
	if selections == nil {
		selections = []models.Selection{}
	}
	return selections, nil
}

// ListEnrolled returns the paid selections of email.
func (s *SelectionService) ListEnrolled(ctx context.Context, email string) ([]models.Selection, error) {
	if email == "" {
		return []models.Selection{}, nil
	}
	selections, err := s.selections.ListPaidByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to list enrolled classes")
	}
	if selections == nil {
		selections = []models.Selection{}
	}
	return selections, nil
}

// Select records a pending selection of an approved class. Selecting the same class twice returns a
// non-error result with Inserted=false.
func (s *SelectionService) Select(ctx context.Context, email string, req dto.SelectClassRequest) (*dto.SelectResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Classify(err, "failed to load class")
	}
	if class.Status != models.ClassStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "class is not open for enrollment")
	}

	exists, err := s.selections.Exists(ctx, email, class.ClassName)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to check selection")
	}
	if exists {
		return &dto.SelectResult{Inserted: false, Message: MessageAlreadySelected}, nil
	}

	selection := &models.Selection{
		Email:           email,
		ClassID:         class.ID,
		ClassName:       class.ClassName,
		InstructorEmail: class.InstructorEmail,
		ImageURL:        class.ImageURL,
		Price:           class.Price,
	}
	if err := s.selections.Create(ctx, selection); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return &dto.SelectResult{Inserted: false, Message: MessageAlreadySelected}, nil
		}
		return nil, appErrors.Classify(err, "failed to create selection")
	}

	s.metrics.RecordSelectionCreated()
	return &dto.SelectResult{Inserted: true, Selection: selection}, nil
}

// Delete removes a pending selection. Ownership is enforced by the storage filter, so a record owned by
// someone else or already paid is reported as not found.
func (s *SelectionService) Delete(ctx context.Context, id, ownerEmail string) (*dto.DeleteResult, error) {
	if !isUUID(s.validator, id) || ownerEmail == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection not found")
	}
	deleted, err := s.selections.DeletePending(ctx, id, ownerEmail)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to delete selection")
	}
	if deleted == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection not found")
	}
	return &dto.DeleteResult{DeletedCount: deleted}, nil
}

// isUUID reports whether id can address a row keyed by a uuid column.
func isUUID(v *validator.Validate, id string) bool {
	return v.Var(id, "required,uuid") == nil
}
