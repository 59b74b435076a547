package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "concord/contexts/governance/engine/application"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
)

// TreasuryUseCase owns custody: contributions, stake deposits and stake
// withdrawals. Each operation pairs a transfer-agent call with the matching
// ledger update inside one atomic scope; a failed transfer aborts the whole
// operation with no balance change.
type TreasuryUseCase struct {
	Repo      ports.Repository
	Transfers ports.TransferAgent
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

const (
	reputationContribution = 3
	reputationStake        = 1
)

// Contribute moves value from the actor into custody. Non-members may
// contribute; only members earn the reputation award. That asymmetry is
// intentional, not an oversight.
func (uc TreasuryUseCase) Contribute(ctx context.Context, actorID string, amount int64) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return 0, domainerrors.ErrInvalidActor
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}

	now := resolveNow(uc.Clock)
	var balance int64
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, isMember, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if isMember {
			if err := adjustReputation(ctx, tx, &account, reputationContribution, now); err != nil {
				return err
			}
			if err := tx.SaveAccount(ctx, account); err != nil {
				return err
			}
		}

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		counters.TreasuryBalance += amount
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}
		balance = counters.TreasuryBalance

		if err := appendEvent(ctx, tx, uc.IDGen, "treasury.contributed", "treasury", actorID, now, map[string]any{
			"actor_id": actorID,
			"amount":   amount,
			"member":   isMember,
			"balance":  balance,
		}); err != nil {
			return err
		}
		return uc.draw(ctx, actorID, amount)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("treasury contribution received",
		"event", "governance_treasury_contributed",
		"module", "governance/engine",
		"layer", "application",
		"actor_id", actorID,
		"amount", amount,
		"balance", balance,
	)
	return balance, nil
}

// Stake deposits value into custody against the member's account and returns
// the new stake total.
func (uc TreasuryUseCase) Stake(ctx context.Context, actorID string, amount int64) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return 0, domainerrors.ErrInvalidActor
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}

	now := resolveNow(uc.Clock)
	var stakeTotal int64
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, isMember, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !isMember {
			return domainerrors.ErrNotMember
		}

		account.Stake += amount
		if err := adjustReputation(ctx, tx, &account, reputationStake, now); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		stakeTotal = account.Stake

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		counters.TreasuryBalance += amount
		counters.TotalStaked += amount
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		if err := appendEvent(ctx, tx, uc.IDGen, "stake.deposited", "stake", actorID, now, map[string]any{
			"actor_id":    actorID,
			"amount":      amount,
			"stake_total": stakeTotal,
		}); err != nil {
			return err
		}
		return uc.draw(ctx, actorID, amount)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("stake deposited",
		"event", "governance_stake_deposited",
		"module", "governance/engine",
		"layer", "application",
		"actor_id", actorID,
		"amount", amount,
		"stake_total", stakeTotal,
	)
	return stakeTotal, nil
}

// WithdrawStake pays part of the member's stake back out of custody and
// returns the remaining stake total.
func (uc TreasuryUseCase) WithdrawStake(ctx context.Context, actorID string, amount int64) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return 0, domainerrors.ErrInvalidActor
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}

	now := resolveNow(uc.Clock)
	var stakeTotal int64
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, isMember, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !isMember {
			return domainerrors.ErrNotMember
		}
		if amount > account.Stake {
			return domainerrors.ErrInsufficientFunds
		}

		account.Stake -= amount
		account.Touch(now)
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}
		stakeTotal = account.Stake

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		counters.TreasuryBalance -= amount
		counters.TotalStaked -= amount
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		if err := appendEvent(ctx, tx, uc.IDGen, "stake.withdrawn", "stake", actorID, now, map[string]any{
			"actor_id":    actorID,
			"amount":      amount,
			"stake_total": stakeTotal,
		}); err != nil {
			return err
		}
		if uc.Transfers != nil {
			if err := uc.Transfers.Transfer(ctx, actorID, amount); err != nil {
				return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("stake withdrawn",
		"event", "governance_stake_withdrawn",
		"module", "governance/engine",
		"layer", "application",
		"actor_id", actorID,
		"amount", amount,
		"stake_total", stakeTotal,
	)
	return stakeTotal, nil
}

func (uc TreasuryUseCase) draw(ctx context.Context, from string, amount int64) error {
	if uc.Transfers == nil {
		return nil
	}
	if err := uc.Transfers.Draw(ctx, from, amount); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	return nil
}
