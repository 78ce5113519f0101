package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/messaging"
	"github.com/medibook/booking-api/pkg/metrics"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 5 * time.Second
)

// OutboxWorker relays pending appointment events from the outbox collection
// to the message broker. Events are written in-band with the state change;
// the relay runs behind, so downstream delivery is at-least-once.
type OutboxWorker struct {
	repo         repository.OutboxRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       *logger.Logger
	channel      string
	batchSize    int
	pollInterval time.Duration
}

func NewOutboxWorker(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger *logger.Logger,
	channel string,
	batchSize int,
	pollInterval time.Duration,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if channel == "" {
		channel = "appointments.events"
	}
	return &OutboxWorker{
		repo:         repo,
		broker:       broker,
		metrics:      m,
		logger:       logger,
		channel:      channel,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// Start polls until the context is cancelled.
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) {
	events, err := w.repo.FetchPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error(err, "failed to fetch pending outbox events")
		return
	}

	for _, event := range events {
		start := time.Now()
		if err := w.relay(ctx, event); err != nil {
			w.logger.Error(err, "failed to relay outbox event",
				"event_id", event.ID.Hex(), "event_type", event.EventType)
			if markErr := w.repo.MarkFailed(ctx, event.ID); markErr != nil {
				w.logger.Error(markErr, "failed to mark outbox event failed", "event_id", event.ID.Hex())
			}
			w.metrics.OutboxEventsFailed.Inc()
			continue
		}

		if err := w.repo.MarkProcessed(ctx, event.ID); err != nil {
			w.logger.Error(err, "failed to mark outbox event processed", "event_id", event.ID.Hex())
			continue
		}
		w.metrics.OutboxEventsProcessed.Inc()
		w.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
	}
}

func (w *OutboxWorker) relay(ctx context.Context, event *model.OutboxEvent) error {
	msg := messaging.Message{
		Type:    event.EventType,
		Payload: json.RawMessage(event.Payload),
	}
	return w.broker.Publish(ctx, w.channel, msg)
}
