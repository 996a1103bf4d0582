package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "faas/contexts/assessment/faas-service/application"
	"faas/contexts/assessment/faas-service/ports"
	"faas/internal/shared/events"
)

// ErasureRelay publishes pending erasure-trace rows to the event bus
// and marks them published. Runs from the worker process.
type ErasureRelay struct {
	Outbox    ports.ErasureOutbox
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r ErasureRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingErasures(ctx, limit)
	if err != nil {
		logger.Error("erasure outbox list failed",
			"event", "faas_erasure_outbox_list_failed",
			"module", "assessment/faas-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event events.Envelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("erasure outbox decode failed",
				"event", "faas_erasure_outbox_decode_failed",
				"module", "assessment/faas-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("erasure outbox publish failed",
				"event", "faas_erasure_outbox_publish_failed",
				"module", "assessment/faas-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"topic", topic,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkErasurePublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("erasure outbox mark published failed",
				"event", "faas_erasure_outbox_mark_failed",
				"module", "assessment/faas-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("erasure relay cycle completed",
			"event", "faas_erasure_relay_completed",
			"module", "assessment/faas-service",
			"layer", "worker",
			"published", len(pending),
		)
	}
	return nil
}

// Run loops RunOnce on the given interval until the context ends.
func (r ErasureRelay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				// Keep relaying; the next tick retries pending rows.
				continue
			}
		}
	}
}
