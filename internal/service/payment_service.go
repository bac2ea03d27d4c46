package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/repository"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/export"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/payment"
)

type paymentRepository interface {
	Complete(ctx context.Context, in models.PaymentCompletion) (*models.PaymentReceipt, error)
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
}

// PaymentConfig tunes the payment flow.
type PaymentConfig struct {
	Currency         string
	VerifyIntent     bool
	ProcessorTimeout time.Duration
}

// ExportFile is a rendered payment history download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// PaymentService creates processor intents and records completed payments.
//
// By default the transaction id sent back by the client is trusted as proof of payment. With
// VerifyIntent enabled the intent is fetched from the processor and must have succeeded for the
// same amount before any seat is consumed.
type PaymentService struct {
	repo      paymentRepository
	processor payment.Processor
	cache     *CacheService
	events    *EventService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    PaymentConfig
}

// NewPaymentService constructs a PaymentService. processor may be nil when no processor is configured.
func NewPaymentService(repo paymentRepository, processor payment.Processor, cache *CacheService, events *EventService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config PaymentConfig) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Currency == "" {
		config.Currency = "usd"
	}
	if config.ProcessorTimeout <= 0 {
		config.ProcessorTimeout = 10 * time.Second
	}
	return &PaymentService{
		repo:      repo,
		processor: processor,
		cache:     cache,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// CreateIntent asks the processor for a client secret covering price.
func (s *PaymentService) CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment intent payload")
	}
	if s.processor == nil {
		return nil, appErrors.Wrap(payment.ErrNotConfigured, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "payment processor unavailable")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ProcessorTimeout)
	defer cancel()

	intent, err := s.processor.CreateIntent(ctx, toMinorUnits(req.Price), s.config.Currency)
	if err != nil {
		return nil, s.processorError(err)
	}
	return &dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// Complete records a payment for a pending selection owned by email, consuming one seat of its class.
func (s *PaymentService) Complete(ctx context.Context, email string, req dto.CompletePaymentRequest) (*models.PaymentReceipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = s.config.Currency
	}

	if s.config.VerifyIntent {
		if err := s.verifyIntent(ctx, req, currency); err != nil {
			return nil, err
		}
	}

	receipt, err := s.repo.Complete(ctx, models.PaymentCompletion{
		Email:         email,
		SelectionID:   req.SelectionID,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Currency:      currency,
		PaidAt:        time.Now().UTC(),
	})
	if err != nil {
		return nil, s.completionError(err)
	}

	s.metrics.RecordPaymentCompleted()
	s.cache.Invalidate(ctx, cachePatternClasses, cachePatternInstructors)
	s.events.Emit(models.EventPaymentCompleted, models.PaymentCompletedEvent{
		PaymentID:     receipt.Payment.ID,
		Email:         receipt.Payment.Email,
		ClassID:       receipt.Payment.ClassID,
		ClassName:     receipt.Payment.ClassName,
		TransactionID: receipt.Payment.TransactionID,
		Amount:        receipt.Payment.Amount,
		Currency:      receipt.Payment.Currency,
		PaidAt:        receipt.Payment.PaidAt,
	})
	s.logger.Info("payment completed",
		zap.String("email", email),
		zap.String("selection_id", req.SelectionID),
		zap.String("transaction_id", req.TransactionID),
		zap.Int("available_seats", receipt.Seats.AvailableSeats),
	)
	return receipt, nil
}

// List returns the payments of email, most recent first.
func (s *PaymentService) List(ctx context.Context, email string) ([]models.Payment, error) {
	if email == "" {
		return []models.Payment{}, nil
	}
	payments, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Classify(err, "failed to list payments")
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// Export renders the payment history of email as csv or pdf.
func (s *PaymentService) Export(ctx context.Context, email, format string) (*ExportFile, error) {
	renderer, err := export.ForFormat(strings.ToLower(format))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
	}
	payments, err := s.List(ctx, email)
	if err != nil {
		return nil, err
	}

	var total float64
	rows := make([]map[string]string, 0, len(payments))
	for _, p := range payments {
		total += p.Amount
		rows = append(rows, map[string]string{
			"Date":        p.PaidAt.Format("2006-01-02 15:04"),
			"Class":       p.ClassName,
			"Amount":      fmt.Sprintf("%.2f", p.Amount),
			"Currency":    strings.ToUpper(p.Currency),
			"Transaction": p.TransactionID,
		})
	}

	body, err := renderer.Render(export.Document{
		Title:   "Payment history",
		Summary: fmt.Sprintf("%s - %d payments, %.2f total", email, len(payments), total),
		Data: export.Dataset{
			Headers: []string{"Date", "Class", "Amount", "Currency", "Transaction"},
			Rows:    rows,
		},
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    "payments." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *PaymentService) verifyIntent(ctx context.Context, req dto.CompletePaymentRequest, currency string) error {
	if s.processor == nil {
		return appErrors.Wrap(payment.ErrNotConfigured, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "payment processor unavailable")
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.ProcessorTimeout)
	defer cancel()

	intent, err := s.processor.GetIntent(ctx, req.TransactionID)
	if err != nil {
		return s.processorError(err)
	}
	if intent == nil || !intent.Succeeded ||
		intent.Amount != toMinorUnits(req.Amount) ||
		!strings.EqualFold(intent.Currency, currency) {
		s.logger.Warn("payment intent verification failed", zap.String("transaction_id", req.TransactionID))
		return appErrors.ErrForbidden
	}
	return nil
}

func (s *PaymentService) completionError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "selection not found")
	case errors.Is(err, repository.ErrClassNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	case errors.Is(err, repository.ErrClassNotApproved):
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "class is not open for enrollment")
	case errors.Is(err, repository.ErrAlreadyPaid):
		return appErrors.Clone(appErrors.ErrConflict, "selection already paid")
	case errors.Is(err, repository.ErrDuplicateEntry):
		return appErrors.Clone(appErrors.ErrConflict, "transaction already recorded")
	case errors.Is(err, repository.ErrNoSeats):
		s.metrics.RecordSeatConflict()
		return appErrors.ErrClassFull
	default:
		s.logger.Error("payment transaction failed", zap.Error(err))
		return appErrors.Classify(err, "failed to record payment")
	}
}

func (s *PaymentService) processorError(err error) error {
	if payment.IsClientError(err) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "payment processor rejected the request")
	}
	s.logger.Warn("payment processor call failed", zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
