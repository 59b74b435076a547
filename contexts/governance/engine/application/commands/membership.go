package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "concord/contexts/governance/engine/application"
	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
)

// MembershipUseCase owns the account ledger: join, exit, and the owner-gated
// reputation adjustment surface. Every operation is a single atomic state
// transition against the repository.
type MembershipUseCase struct {
	Repo      ports.Repository
	Transfers ports.TransferAgent
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	OwnerID   string
	Logger    *slog.Logger
}

// JoinResult carries the freshly created account and the member count after
// the join.
type JoinResult struct {
	Account      entities.Account
	TotalMembers int64
}

// ExitResult reports the stake refunded on the way out.
type ExitResult struct {
	RefundedStake int64
	TotalMembers  int64
}

// Join creates the account and its analytics companion with reputation at the
// floor. Rejoining after an exit starts over; nothing carries across.
func (uc MembershipUseCase) Join(ctx context.Context, actorID string) (JoinResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return JoinResult{}, domainerrors.ErrInvalidActor
	}

	now := resolveNow(uc.Clock)
	var result JoinResult
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		if _, exists, err := tx.GetAccount(ctx, actorID); err != nil {
			return err
		} else if exists {
			return domainerrors.ErrAlreadyMember
		}

		account := entities.NewAccount(actorID, now)
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		if err := tx.SaveAnalytics(ctx, entities.NewAccountAnalytics(actorID)); err != nil {
			return err
		}

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		counters.TotalMembers++
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		result = JoinResult{Account: account, TotalMembers: counters.TotalMembers}
		return appendEvent(ctx, tx, uc.IDGen, "member.joined", "member", actorID, now, map[string]any{
			"actor_id":      actorID,
			"total_members": counters.TotalMembers,
		})
	})
	if err != nil {
		return JoinResult{}, err
	}

	logger.Info("member joined",
		"event", "governance_member_joined",
		"module", "governance/engine",
		"layer", "application",
		"actor_id", actorID,
		"total_members", result.TotalMembers,
	)
	return result, nil
}

// Exit refunds any held stake through the transfer agent, then deletes the
// account and its analytics. The refund is part of the atomic scope: a failed
// transfer leaves the membership untouched.
func (uc MembershipUseCase) Exit(ctx context.Context, actorID string) (ExitResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ExitResult{}, domainerrors.ErrInvalidActor
	}

	now := resolveNow(uc.Clock)
	var result ExitResult
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, exists, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !exists {
			return domainerrors.ErrNotMember
		}

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		if account.Stake > 0 {
			counters.TreasuryBalance -= account.Stake
			counters.TotalStaked -= account.Stake
		}
		counters.TotalMembers--
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		if err := tx.DeleteAccount(ctx, actorID); err != nil {
			return err
		}
		if err := tx.DeleteAnalytics(ctx, actorID); err != nil {
			return err
		}

		result = ExitResult{RefundedStake: account.Stake, TotalMembers: counters.TotalMembers}
		if err := appendEvent(ctx, tx, uc.IDGen, "member.exited", "member", actorID, now, map[string]any{
			"actor_id":       actorID,
			"refunded_stake": account.Stake,
			"total_members":  counters.TotalMembers,
		}); err != nil {
			return err
		}

		// Refund last so a custody failure aborts the staged deletion.
		if account.Stake > 0 && uc.Transfers != nil {
			if err := uc.Transfers.Transfer(ctx, actorID, account.Stake); err != nil {
				return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return ExitResult{}, err
	}

	logger.Info("member exited",
		"event", "governance_member_exited",
		"module", "governance/engine",
		"layer", "application",
		"actor_id", actorID,
		"refunded_stake", result.RefundedStake,
	)
	return result, nil
}

// AdjustReputation is the owner-only administrative surface over the ledger's
// reputation entry point. Internal flows (votes, proposals, treasury awards)
// call the same clamping logic directly inside their own transactions.
func (uc MembershipUseCase) AdjustReputation(
	ctx context.Context,
	callerID string,
	actorID string,
	delta int64,
) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(callerID) != strings.TrimSpace(uc.OwnerID) || strings.TrimSpace(uc.OwnerID) == "" {
		return 0, domainerrors.ErrNotOwner
	}
	actorID = strings.TrimSpace(actorID)

	now := resolveNow(uc.Clock)
	var updated int64
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, exists, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !exists {
			return domainerrors.ErrNotMember
		}
		if err := adjustReputation(ctx, tx, &account, delta, now); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		updated = account.Reputation
		return appendEvent(ctx, tx, uc.IDGen, "reputation.adjusted", "member", actorID, now, map[string]any{
			"actor_id":   actorID,
			"delta":      delta,
			"reputation": updated,
		})
	})
	if err != nil {
		return 0, err
	}

	logger.Info("reputation adjusted",
		"event", "governance_reputation_adjusted",
		"module", "governance/engine",
		"layer", "application",
		"actor_id", actorID,
		"delta", delta,
		"reputation", updated,
	)
	return updated, nil
}
