package commands

import (
	"context"
	"encoding/json"
	"time"

	"concord/contexts/governance/engine/domain/entities"
	"concord/contexts/governance/engine/ports"
	"concord/internal/shared/events"
	"concord/internal/shared/outbox"
)

const sourceService = "governance-engine"

// adjustReputation routes every reputation change through the single ledger
// entry point: clamp to the floor, stamp activity, track the analytics peak.
// The caller is responsible for saving the account itself.
func adjustReputation(
	ctx context.Context,
	tx ports.Repository,
	account *entities.Account,
	delta int64,
	now time.Time,
) error {
	account.AdjustReputation(delta, now)
	analytics, found, err := tx.GetAnalytics(ctx, account.ActorID)
	if err != nil {
		return err
	}
	if found {
		analytics.TrackPeak(account.Reputation)
		if err := tx.SaveAnalytics(ctx, analytics); err != nil {
			return err
		}
	}
	return nil
}

// appendEvent persists an outbox row carrying the canonical envelope. A nil
// generator disables event emission, which pure read/test wiring relies on.
func appendEvent(
	ctx context.Context,
	tx ports.Repository,
	idGen ports.IDGenerator,
	eventType string,
	entityType string,
	entityID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	if idGen == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  occurredAt.UTC(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        data,
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, outbox.Message{
		ID:        eventID,
		EventType: eventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
	})
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
