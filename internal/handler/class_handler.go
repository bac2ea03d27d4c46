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

type classService interface {
	ListApproved(ctx context.Context, featured bool) ([]models.Class, bool, error)
	ListAll(ctx context.Context) ([]models.Class, error)
	ListByInstructor(ctx context.Context, email string) ([]models.Class, error)
	Create(ctx context.Context, instructorEmail, instructorName string, req dto.CreateClassRequest) (*models.Class, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateClassStatusRequest, actor string) (*models.Class, error)
	SetFeedback(ctx context.Context, id string, req dto.ClassFeedbackRequest) (*models.Class, error)
}

type instructorService interface {
	List(ctx context.Context, featured bool) ([]models.Instructor, bool, error)
}

// ClassHandler serves the public catalog, instructor submissions and admin moderation.
type ClassHandler struct {
	classes     classService
	instructors instructorService
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(classes classService, instructors instructorService) *ClassHandler {
	return &ClassHandler{classes: classes, instructors: instructors}
}

// featured reports whether the caller asked for the short, popularity-ranked listing.
func featured(c *gin.Context) bool {
	limit := c.Query("limit")
	return limit != "" && limit != "0"
}

// ListClasses godoc
// @Summary List approved classes
// @Description Approved classes sorted by enrolled students; any limit parameter returns the featured subset
// @Tags Catalog
// @Produce json
// @Param limit query string false "Return featured classes only"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, hit, err := h.classes.ListApproved(c.Request.Context(), featured(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	respond(c, http.StatusOK, classes)
}

// ListInstructors godoc
// @Summary List instructors
// @Description Instructors sorted by students across their approved classes
// @Tags Catalog
// @Produce json
// @Param limit query string false "Return featured instructors only"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *ClassHandler) ListInstructors(c *gin.Context) {
	instructors, hit, err := h.instructors.List(c.Request.Context(), featured(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	respond(c, http.StatusOK, instructors)
}

// CreateClass godoc
// @Summary Submit a class
// @Description The class starts pending until an admin approves it
// @Tags Instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dashboard/instructor/classes [post]
func (h *ClassHandler) CreateClass(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.classes.Create(c.Request.Context(), caller.Email, caller.Name, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// ListOwnClasses godoc
// @Summary List own classes
// @Tags Instructor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/instructor/classes [get]
func (h *ClassHandler) ListOwnClasses(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classes, err := h.classes.ListByInstructor(c.Request.Context(), caller.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// ListAllClasses godoc
// @Summary List every class
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard/admin/classes [get]
func (h *ClassHandler) ListAllClasses(c *gin.Context) {
	classes, err := h.classes.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// UpdateStatus godoc
// @Summary Moderate a class
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body dto.UpdateClassStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/admin/classes/{id}/status [patch]
func (h *ClassHandler) UpdateStatus(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateClassStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	class, err := h.classes.UpdateStatus(c.Request.Context(), c.Param("id"), req, caller.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}

// SetFeedback godoc
// @Summary Send feedback on a class
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body dto.ClassFeedbackRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/admin/classes/{id}/feedback [patch]
func (h *ClassHandler) SetFeedback(c *gin.Context) {
	var req dto.ClassFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	class, err := h.classes.SetFeedback(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}
