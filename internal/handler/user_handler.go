package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/middleware"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/response"
)

type userService interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*dto.InsertResult, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	HasRole(ctx context.Context, email string, expected models.Role) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id string, req dto.UpdateRoleRequest, actor string) (*dto.UserRoleResponse, error)
}

// UserHandler manages registration, profile reads and role checks.
type UserHandler struct {
	service userService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

// Register godoc
// @Summary Register user
// @Description Store the user on first sign-in; a repeat registration reports inserted=false
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.RegisterUserRequest true "User payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Inserted {
		response.OK(c, res)
		return
	}
	response.Created(c, res)
}

// Get godoc
// @Summary Get own user record
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email query string false "Email of the caller"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.GetByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// IsUser godoc
// @Summary Check plain user role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.Envelope
// @Router /users/user/{email} [get]
func (h *UserHandler) IsUser(c *gin.Context) {
	h.roleCheck(c, "user", models.RoleUnset)
}

// IsInstructor godoc
// @Summary Check instructor role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.Envelope
// @Router /users/instructor/{email} [get]
func (h *UserHandler) IsInstructor(c *gin.Context) {
	h.roleCheck(c, models.RoleInstructor.String(), models.RoleInstructor)
}

// IsAdmin godoc
// @Summary Check admin role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.Envelope
// @Router /users/admin/{email} [get]
func (h *UserHandler) IsAdmin(c *gin.Context) {
	h.roleCheck(c, models.RoleAdmin.String(), models.RoleAdmin)
}

// roleCheck answers {<key>: bool}. A caller asking about someone else gets false without a lookup.
func (h *UserHandler) roleCheck(c *gin.Context, key string, expected models.Role) {
	if middleware.Mismatch(c) {
		response.OK(c, gin.H{key: false})
		return
	}
	ok, err := h.service.HasRole(c.Request.Context(), c.Param("email"), expected)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{key: ok})
}

// List godoc
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// UpdateRole godoc
// @Summary Change user role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param payload body dto.UpdateRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/admin/users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid role payload"))
		return
	}

	res, err := h.service.SetRole(c.Request.Context(), c.Param("id"), req, caller.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
