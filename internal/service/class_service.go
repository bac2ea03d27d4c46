package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/repository"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	UpdateStatus(ctx context.Context, id string, status models.ClassStatus) (*models.Class, error)
	UpdateFeedback(ctx context.Context, id, feedback string) (*models.Class, error)
}

// CatalogConfig tunes the public listings.
type CatalogConfig struct {
	FeaturedLimit int
	CacheTTL      time.Duration
}

// ClassService serves the class catalog, instructor submissions and admin moderation.
type ClassService struct {
	repo      classRepository
	cache     *CacheService
	events    *EventService
	validator *validator.Validate
	logger    *zap.Logger
	config    CatalogConfig
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, cache *CacheService, events *EventService, validate *validator.Validate, logger *zap.Logger, config CatalogConfig) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.FeaturedLimit <= 0 {
		config.FeaturedLimit = 6
	}
	return &ClassService{repo: repo, cache: cache, events: events, validator: validate, logger: logger, config: config}
}

// ListApproved returns approved classes by popularity; featured limits the result to the top entries.
// The second return value reports a cache hit.
func (s *ClassService) ListApproved(ctx context.Context, featured bool) ([]models.Class, bool, error) {
	key := cacheKeyClassesAll
	filter := models.ClassFilter{Status: models.ClassStatusApproved}
	if featured {
		key = cacheKeyClassesFeatured
		filter.Limit = s.config.FeaturedLimit
	}

	var cached []models.Class
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Classify(err, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	s.cache.Set(ctx, key, classes, s.config.CacheTTL)
	return classes, false, nil
}

// ListAll returns every class regardless of status, for moderation.
func (s *ClassService) ListAll(ctx context.Context) ([]models.Class, error) {
	classes, err := s.repo.List(ctx, models.ClassFilter{})
	if err != nil {
		return nil, appErrors.Classify(err, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// ListByInstructor returns the classes submitted by an instructor.
func (s *ClassService) ListByInstructor(ctx context.Context, email string) ([]models.Class, error) {
	classes, err := s.repo.List(ctx, models.ClassFilter{InstructorEmail: email})
	if err != nil {
		return nil, appErrors.Classify(err, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// Create submits a class for moderation. It starts pending with no students.
func (s *ClassService) Create(ctx context.Context, instructorEmail, instructorName string, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	name := req.InstructorName
	if name == "" {
		name = instructorName
	}
	class := &models.Class{
		ClassName:       req.ClassName,
		ImageURL:        req.ImageURL,
		InstructorName:  name,
		InstructorEmail: instructorEmail,
		Price:           req.Price,
		AvailableSeats:  req.AvailableSeats,
		Students:        0,
		Status:          models.ClassStatusPending,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class already exists")
		}
		return nil, appErrors.Classify(err, "failed to create class")
	}
	s.logger.Info("class submitted", zap.String("class_id", class.ID), zap.String("instructor", instructorEmail))
	return class, nil
}

// UpdateStatus moderates a class and announces the decision.
func (s *ClassService) UpdateStatus(ctx context.Context, id string, req dto.UpdateClassStatusRequest, actor string) (*models.Class, error) {
	if !isUUID(s.validator, id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	class, err := s.repo.UpdateStatus(ctx, id, models.ClassStatus(req.Status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Classify(err, "failed to update class status")
	}

	s.cache.Invalidate(ctx, cachePatternClasses, cachePatternInstructors)
	s.events.Emit(models.EventClassReviewed, models.ClassReviewedEvent{
		ClassID:         class.ID,
		ClassName:       class.ClassName,
		InstructorEmail: class.InstructorEmail,
		Status:          class.Status,
		ReviewedBy:      actor,
	})
	return class, nil
}

// SetFeedback stores admin feedback on a class.
func (s *ClassService) SetFeedback(ctx context.Context, id string, req dto.ClassFeedbackRequest) (*models.Class, error) {
	if !isUUID(s.validator, id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	class, err := s.repo.UpdateFeedback(ctx, id, req.Feedback)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Classify(err, "failed to update class feedback")
	}
	return class, nil
}
