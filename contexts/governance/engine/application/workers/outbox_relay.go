package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "concord/contexts/governance/engine/application"
	"concord/contexts/governance/engine/ports"
	"concord/internal/shared/events"
)

// OutboxRelay publishes persisted outbox rows to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after broker publish succeeds. It stops on the first failure
// so the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "governance_outbox_list_failed",
			"module", "governance/engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	published := 0
	for _, row := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("outbox decode failed",
				"event", "governance_outbox_decode_failed",
				"module", "governance/engine",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", err.Error(),
			)
			return published, err
		}
		topic := envelope.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "governance_outbox_publish_failed",
				"module", "governance/engine",
				"layer", "worker",
				"outbox_id", row.ID,
				"topic", topic,
				"error", err.Error(),
			)
			return published, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.ID); err != nil {
			return published, err
		}
		published++
	}

	logger.Info("outbox relay cycle finished",
		"event", "governance_outbox_relay_finished",
		"module", "governance/engine",
		"layer", "worker",
		"published", published,
	)
	return published, nil
}
