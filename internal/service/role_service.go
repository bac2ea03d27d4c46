package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

type roleRepository interface {
	RoleByEmail(ctx context.Context, email string) (models.Role, error)
}

// RoleService resolves the stored role of a caller with a bounded lookup.
type RoleService struct {
	repo    roleRepository
	timeout time.Duration
	logger  *zap.Logger
}

// NewRoleService constructs a RoleService. A non-positive timeout falls back to two seconds.
func NewRoleService(repo roleRepository, timeout time.Duration, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RoleService{repo: repo, timeout: timeout, logger: logger}
}

// RoleOf returns the role stored for email, RoleUnset for unknown users. Timeouts and unreachable
// storage surface as UPSTREAM_UNAVAILABLE; an unrecognised stored role fails closed.
func (s *RoleService) RoleOf(ctx context.Context, email string) (models.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	role, err := s.repo.RoleByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("role lookup failed", zap.String("email", email), zap.Error(err))
		return models.RoleUnset, appErrors.Classify(err, "failed to resolve role")
	}
	return role, nil
}
