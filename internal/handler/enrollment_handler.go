package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/response"
)

type selectionService interface {
	List(ctx context.Context, email string) ([]models.Selection, error)
	ListEnrolled(ctx context.Context, email string) ([]models.Selection, error)
	Select(ctx context.Context, email string, req dto.SelectClassRequest) (*dto.SelectResult, error)
	Delete(ctx context.Context, id, ownerEmail string) (*dto.DeleteResult, error)
}

// EnrollmentHandler exposes a student's selected and enrolled classes.
type EnrollmentHandler struct {
	service selectionService
}

// NewEnrollmentHandler constructs an EnrollmentHandler.
func NewEnrollmentHandler(service selectionService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// ListSelected godoc
// @Summary List selected classes
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param email query string false "Email of the caller"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/user/selected-classes [get]
func (h *EnrollmentHandler) ListSelected(c *gin.Context) {
	selections, err := h.service.List(c.Request.Context(), listedEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, selections)
}

// Select godoc
// @Summary Select a class
// @Description Records a pending selection; selecting the same class twice reports inserted=false
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SelectClassRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /dashboard/user/selected-classes [post]
func (h *EnrollmentHandler) Select(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SelectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	res, err := h.service.Select(c.Request.Context(), caller.Email, req)
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

// Delete godoc
// @Summary Remove a pending selection
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Selection ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/user/selected-classes/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.service.Delete(c.Request.Context(), c.Param("id"), caller.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// ListEnrolled godoc
// @Summary List enrolled classes
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param email query string false "Email of the caller"
// @Success 200 {object} response.Envelope
// @Router /dashboard/user/enrolled-classes [get]
func (h *EnrollmentHandler) ListEnrolled(c *gin.Context) {
	selections, err := h.service.ListEnrolled(c.Request.Context(), listedEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, selections)
}
