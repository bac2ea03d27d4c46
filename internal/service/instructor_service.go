package service

import (
	"context"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

type instructorRepository interface {
	List(ctx context.Context, limit int) ([]models.Instructor, error)
}

// InstructorService lists instructors for the public catalog.
type InstructorService struct {
	repo   instructorRepository
	cache  *CacheService
	config CatalogConfig
}

// NewInstructorService constructs an InstructorService.
func NewInstructorService(repo instructorRepository, cache *CacheService, config CatalogConfig) *InstructorService {
	if config.FeaturedLimit <= 0 {
		config.FeaturedLimit = 6
	}
	return &InstructorService{repo: repo, cache: cache, config: config}
}

// List returns instructors by total students; featured keeps only the top entries.
func (s *InstructorService) List(ctx context.Context, featured bool) ([]models.Instructor, bool, error) {
	key := cacheKeyInstructorsAll
	limit := 0
	if featured {
		key = cacheKeyInstructorsTop
		limit = s.config.FeaturedLimit
	}

	var cached []models.Instructor
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	instructors, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, false, appErrors.Classify(err, "failed to list instructors")
	}
	if instructors == nil {
		instructors = []models.Instructor{}
	}
	s.cache.Set(ctx, key, instructors, s.config.CacheTTL)
	return instructors, false, nil
}
