package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/governance/engine/application"
	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
)

// QueryUseCase serves the read-only surfaces. Queries never mutate state and
// run outside the atomic transition boundary.
type QueryUseCase struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

// AccountProfile is the member-facing view of the ledger plus analytics.
type AccountProfile struct {
	Account     entities.Account
	Analytics   entities.AccountAnalytics
	VotingPower int64
	Tier        string
}

// ProposalView is the full record plus derived approval rate and the
// remaining voting window.
type ProposalView struct {
	Proposal      entities.Proposal
	ApprovalRate  float64
	TimeRemaining time.Duration
}

// TreasuryStatus summarizes custody.
type TreasuryStatus struct {
	Balance      int64
	TotalMembers int64
	AverageStake int64
}

// SystemStatistics is counters plus the qualitative health label.
type SystemStatistics struct {
	Counters entities.SystemCounters
	Health   string
}

func (uc QueryUseCase) AccountProfile(ctx context.Context, actorID string) (AccountProfile, error) {
	actorID = strings.TrimSpace(actorID)
	account, isMember, err := uc.Repo.GetAccount(ctx, actorID)
	if err != nil {
		return AccountProfile{}, err
	}
	if !isMember {
		return AccountProfile{}, domainerrors.ErrNotMember
	}
	analytics, _, err := uc.Repo.GetAnalytics(ctx, actorID)
	if err != nil {
		return AccountProfile{}, err
	}
	return AccountProfile{
		Account:     account,
		Analytics:   analytics,
		VotingPower: account.VotingPower(),
		Tier:        account.Tier(),
	}, nil
}

func (uc QueryUseCase) Proposal(ctx context.Context, proposalID uint64) (ProposalView, error) {
	proposal, found, err := uc.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return ProposalView{}, err
	}
	if !found {
		return ProposalView{}, domainerrors.ErrInvalidProposal
	}
	now := uc.now()
	return ProposalView{
		Proposal:      proposal,
		ApprovalRate:  proposal.ApprovalRate(),
		TimeRemaining: proposal.TimeRemaining(now),
	}, nil
}

func (uc QueryUseCase) TreasuryStatus(ctx context.Context) (TreasuryStatus, error) {
	counters, err := uc.Repo.GetCounters(ctx)
	if err != nil {
		return TreasuryStatus{}, err
	}
	return TreasuryStatus{
		Balance:      counters.TreasuryBalance,
		TotalMembers: counters.TotalMembers,
		AverageStake: counters.AverageStake(),
	}, nil
}

func (uc QueryUseCase) SystemStatistics(ctx context.Context) (SystemStatistics, error) {
	counters, err := uc.Repo.GetCounters(ctx)
	if err != nil {
		return SystemStatistics{}, err
	}
	stats := SystemStatistics{Counters: counters, Health: counters.HealthLabel()}
	logger := application.ResolveLogger(uc.Logger)
	logger.Debug("system statistics served",
		"event", "governance_statistics_served",
		"module", "governance/engine",
		"layer", "application",
		"health", stats.Health,
	)
	return stats, nil
}

func (uc QueryUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
