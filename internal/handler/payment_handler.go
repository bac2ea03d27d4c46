package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/service"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/response"
)

type paymentService interface {
	CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	Complete(ctx context.Context, email string, req dto.CompletePaymentRequest) (*models.PaymentReceipt, error)
	List(ctx context.Context, email string) ([]models.Payment, error)
	Export(ctx context.Context, email, format string) (*service.ExportFile, error)
}

// PaymentHandler exposes payment intents, completion and payment history.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(service paymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreateIntent godoc
// @Summary Create payment intent
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PaymentIntentRequest true "Price"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dashboard/user/payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req dto.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment intent payload"))
		return
	}

	res, err := h.service.CreateIntent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Complete godoc
// @Summary Complete payment
// @Description Links a processor transaction to a pending selection and consumes one seat
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CompletePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dashboard/user/payments [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	receipt, err := h.service.Complete(c.Request.Context(), caller.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// List godoc
// @Summary Payment history
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param email query string false "Email of the caller"
// @Success 200 {object} response.Envelope
// @Router /dashboard/user/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.service.List(c.Request.Context(), listedEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payments)
}

// Export godoc
// @Summary Export payment history
// @Tags Payments
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /dashboard/user/payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	file, err := h.service.Export(c.Request.Context(), caller.Email, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
