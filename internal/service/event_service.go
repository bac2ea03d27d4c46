package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/jobs"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/messaging"
)

const publishTimeout = 5 * time.Second

// EventService publishes domain events asynchronously through a worker queue. Delivery is best
// effort and never affects committed state. A nil *EventService drops events.
type EventService struct {
	publisher messaging.Publisher
	queue     *jobs.Queue[messaging.Message]
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEventService wires a publisher behind a retrying worker queue.
func NewEventService(publisher messaging.Publisher, metrics *MetricsService, cfg jobs.QueueConfig, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = messaging.LogPublisher{Logger: logger}
	}
	cfg.Logger = logger
	s := &EventService{publisher: publisher, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue[messaging.Message]("domain-events", s.deliver, cfg)
	return s
}

// Start launches the delivery workers. They keep running after ctx is cancelled until Stop is called.
func (s *EventService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(context.WithoutCancel(ctx))
}

// Stop drains the workers and closes the publisher.
func (s *EventService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
	if err := s.publisher.Close(); err != nil {
		s.logger.Warn("close event publisher", zap.Error(err))
	}
}

// Emit encodes payload and schedules it for delivery without blocking the caller.
func (s *EventService) Emit(eventType string, payload interface{}) {
	if s == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("encode event", zap.String("type", eventType), zap.Error(err))
		return
	}
	msg := messaging.Message{
		ID:         uuid.NewString(),
		Type:       eventType,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.queue.TryEnqueue(jobs.Job[messaging.Message]{ID: msg.ID, Type: eventType, Payload: msg}); err != nil {
		s.metrics.RecordEvent(eventType, false)
		s.logger.Warn("event dropped", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *EventService) deliver(ctx context.Context, job jobs.Job[messaging.Message]) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	err := s.publisher.Publish(ctx, job.Payload)
	s.metrics.RecordEvent(job.Type, err == nil)
	return err
}
