package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/governance/engine/application"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
	"concord/internal/shared/events"
	"concord/internal/shared/outbox"
)

// DecaySweep reduces reputation on accounts that have gone quiet for longer
// than the inactivity threshold. It is an owner-gated batch job outside the
// single-operation atomic model: each decayed account is its own atomic
// transition, so the sweep never holds the whole account set inside one
// transaction.
type DecaySweep struct {
	Repo        ports.Repository
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	OwnerID     string
	Inactivity  time.Duration
	DecayAmount int64
	BatchSize   int
	Logger      *slog.Logger
}

// RunOnce decays a bounded batch of inactive accounts and returns how many
// were touched. The decay itself stamps activity, so an account is not
// decayed again until it sits idle past the threshold once more.
func (w DecaySweep) RunOnce(ctx context.Context, actorID string) (int, error) {
	logger := application.ResolveLogger(w.Logger)
	if strings.TrimSpace(actorID) != strings.TrimSpace(w.OwnerID) || strings.TrimSpace(w.OwnerID) == "" {
		return 0, domainerrors.ErrNotOwner
	}
	if w.Inactivity <= 0 || w.DecayAmount <= 0 {
		return 0, nil
	}
	limit := w.BatchSize
	if limit <= 0 {
		limit = 100
	}

	now := w.now()
	cutoff := now.Add(-w.Inactivity)
	inactive, err := w.Repo.ListInactiveAccounts(ctx, cutoff, limit)
	if err != nil {
		logger.Error("decay sweep listing failed",
			"event", "governance_decay_list_failed",
			"module", "governance/engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	decayed := 0
	for _, candidate := range inactive {
		touched := false
		err := w.Repo.Atomically(ctx, func(tx ports.Repository) error {
			account, exists, err := tx.GetAccount(ctx, candidate.ActorID)
			if err != nil {
				return err
			}
			// The account may have exited or acted since the listing.
			if !exists || account.LastActivity.After(cutoff) {
				return nil
			}
			before := account.Reputation
			account.AdjustReputation(-w.DecayAmount, now)
			if err := tx.SaveAccount(ctx, account); err != nil {
				return err
			}
			touched = true
			if account.Reputation == before {
				return nil
			}
			return w.appendDecayEvent(ctx, tx, account.ActorID, before, account.Reputation, now)
		})
		if err != nil {
			return decayed, err
		}
		if touched {
			decayed++
		}
	}

	if decayed > 0 {
		logger.Info("decay sweep finished",
			"event", "governance_decay_sweep_finished",
			"module", "governance/engine",
			"layer", "worker",
			"decayed", decayed,
		)
	}
	return decayed, nil
}

func (w DecaySweep) appendDecayEvent(
	ctx context.Context,
	tx ports.Repository,
	actorID string,
	before int64,
	after int64,
	now time.Time,
) error {
	if w.IDGen == nil {
		return nil
	}
	eventID, err := w.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(events.Envelope{
		EventID:        eventID,
		EventType:      "reputation.decayed",
		SourceService:  "governance-engine",
		OccurredAtUTC:  now.UTC(),
		EntityType:     "member",
		EntityID:       actorID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"actor_id": actorID,
			"before":   before,
			"after":    after,
		},
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, outbox.Message{
		ID:        eventID,
		EventType: "reputation.decayed",
		Payload:   payload,
		Status:    outbox.StatusPending,
	})
}

func (w DecaySweep) now() time.Time {
	if w.Clock == nil {
		return time.Now().UTC()
	}
	return w.Clock.Now().UTC()
}
