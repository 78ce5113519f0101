package event

import (
	"context"
	"encoding/json"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/logger"
)

// Service writes lifecycle events to the outbox. Emission is best-effort:
// a failed outbox write never fails the request that triggered it.
type Service struct {
	repo   repository.OutboxRepository
	logger *logger.Logger
}

func NewService(repo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to write outbox event", "event_type", eventType)
	}
}
