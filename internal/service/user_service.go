package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

// MessageUserExists is returned when registration finds an existing account.
const MessageUserExists = "user already exists."

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}

type roleLookup interface {
	RoleOf(ctx context.Context, email string) (models.Role, error)
}

// UserService handles registration, profile reads and role administration.
type UserService struct {
	repo      userRepository
	roles     roleLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo userRepository, roles roleLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, roles: roles, cache: cache, validator: validate, logger: logger}
}

// Register stores the user on first sign-in. A repeat registration is not an error.
func (s *UserService) Register(ctx context.Context, req dto.RegisterUserRequest) (*dto.InsertResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user := &models.User{Email: req.Email, Name: req.Name, PhotoURL: req.PhotoURL}
	inserted, err := s.repo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to register user")
	}
	if !inserted {
		return &dto.InsertResult{Inserted: false, Message: MessageUserExists}, nil
	}
	s.logger.Info("user registered", zap.String("email", user.Email))
	return &dto.InsertResult{Inserted: true, InsertedID: user.ID}, nil
}

// GetByEmail returns the stored user or nil when none is registered yet.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Classify(err, "failed to load user")
	}
	return user, nil
}

// HasRole reports whether email holds exactly the expected role.
func (s *UserService) HasRole(ctx context.Context, email string, expected models.Role) (bool, error) {
	role, err := s.roles.RoleOf(ctx, email)
	if err != nil {
		return false, err
	}
	return role == expected, nil
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SetRole assigns an elevated role to the user with the given id.
func (s *UserService) SetRole(ctx context.Context, id string, req dto.UpdateRoleRequest, actor string) (*dto.UserRoleResponse, error) {
	if !isUUID(s.validator, id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role")
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Classify(err, "failed to update role")
	}

	s.cache.Invalidate(ctx, cachePatternInstructors)
	s.logger.Info("user role changed", zap.String("user_id", user.ID), zap.String("role", role.String()), zap.String("actor", actor))
	return &dto.UserRoleResponse{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}
