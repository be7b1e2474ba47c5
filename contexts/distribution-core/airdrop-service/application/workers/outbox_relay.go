package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/ports"
)

const defaultRelayBatchSize = 100

// OutboxRelay drains pending airdrop outbox rows and republishes them on the
// event bus for external indexers. Rows are marked published only after the
// bus accepts them, so delivery is at-least-once.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = defaultRelayBatchSize
	}
	messages, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("airdrop outbox relay list failed",
			"event", "airdrop_outbox_relay_list_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"error", err.Error(),
		)
		return 0, err
	}

	published := 0
	for _, message := range messages {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("airdrop outbox relay payload decode failed",
				"event", "airdrop_outbox_relay_decode_failed",
				"module", "distribution-core/airdrop-service",
				"layer", "application",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Publisher.Publish(ctx, r.topic(), envelope); err != nil {
			logger.Warn("airdrop outbox relay publish failed",
				"event", "airdrop_outbox_relay_publish_failed",
				"module", "distribution-core/airdrop-service",
				"layer", "application",
				"outbox_id", message.OutboxID,
				"event_type", message.EventType,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, r.now()); err != nil {
			logger.Error("airdrop outbox relay mark published failed",
				"event", "airdrop_outbox_relay_mark_failed",
				"module", "distribution-core/airdrop-service",
				"layer", "application",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			continue
		}
		published++
	}
	if published > 0 {
		logger.Info("airdrop outbox relay batch published",
			"event", "airdrop_outbox_relay_batch_published",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"published_count", published,
		)
	}
	return published, nil
}

func (r OutboxRelay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

func (r OutboxRelay) topic() string {
	if r.Topic != "" {
		return r.Topic
	}
	return "airdrop.events"
}

func (r OutboxRelay) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
