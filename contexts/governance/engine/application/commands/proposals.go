package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "concord/contexts/governance/engine/application"
	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
)

// DefaultProposalDuration is the voting window applied when wiring leaves the
// duration unset.
const DefaultProposalDuration = 72 * time.Hour

const (
	reputationProposalCreated  = 2
	reputationProposalExecuted = 5
)

// ProposalUseCase owns the proposal lifecycle: Active at creation, then a
// single terminal transition to Executed or Rejected once the voting window
// has closed.
type ProposalUseCase struct {
	Repo             ports.Repository
	Transfers        ports.TransferAgent
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	ProposalDuration time.Duration
	Logger           *slog.Logger
}

// CreateProposalInput is the write-model input for proposal creation.
type CreateProposalInput struct {
	Title       string
	Description string
	Amount      int64
	Category    string
}

// ExecuteResult reports the terminal transition and any payout made.
type ExecuteResult struct {
	Proposal entities.Proposal
	Executed bool
	Payout   int64
	Outcome  string
}

// Create validates inputs, checks the requested amount against the treasury
// balance at creation time (a reservation check only; nothing is locked) and
// opens the voting window. The execution threshold snapshots totalMembers/2.
func (uc ProposalUseCase) Create(
	ctx context.Context,
	actorID string,
	input CreateProposalInput,
) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidActor
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidProposal
	}
	if input.Amount < 0 {
		return entities.Proposal{}, domainerrors.ErrInvalidAmount
	}

	now := resolveNow(uc.Clock)
	duration := uc.ProposalDuration
	if duration <= 0 {
		duration = DefaultProposalDuration
	}

	var proposal entities.Proposal
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, isMember, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !isMember {
			return domainerrors.ErrNotMember
		}

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		if input.Amount > counters.TreasuryBalance {
			return domainerrors.ErrInsufficientFunds
		}

		counters.TotalProposals++
		proposal = entities.Proposal{
			ID:                 uint64(counters.TotalProposals),
			Creator:            actorID,
			Title:              title,
			Description:        description,
			Amount:             input.Amount,
			Status:             entities.ProposalActive,
			CreatedAt:          now,
			ExpiresAt:          now.Add(duration),
			ExecutionThreshold: counters.TotalMembers / 2,
			Category:           strings.TrimSpace(input.Category),
		}
		if err := tx.SaveProposal(ctx, proposal); err != nil {
			return err
		}
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		account.ProposalsCreated++
		if err := adjustReputation(ctx, tx, &account, reputationProposalCreated, now); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}

		return appendEvent(ctx, tx, uc.IDGen, "proposal.created", "proposal", formatProposalID(proposal.ID), now, map[string]any{
			"proposal_id": proposal.ID,
			"creator":     actorID,
			"amount":      proposal.Amount,
			"threshold":   proposal.ExecutionThreshold,
			"expires_at":  proposal.ExpiresAt.UTC(),
			"category":    proposal.Category,
		})
	})
	if err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal created",
		"event", "governance_proposal_created",
		"module", "governance/engine",
		"layer", "application",
		"proposal_id", proposal.ID,
		"creator", actorID,
		"amount", proposal.Amount,
		"threshold", proposal.ExecutionThreshold,
	)
	return proposal, nil
}

// Execute settles an Active proposal after its voting window closes. The
// decision rule is strict on both legs: yes must beat no and must exceed the
// snapshotted threshold. Success pays the creator from the treasury within
// the same atomic scope, so a failed payout leaves the proposal Active.
func (uc ProposalUseCase) Execute(ctx context.Context, actorID string, proposalID uint64) (ExecuteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ExecuteResult{}, domainerrors.ErrInvalidActor
	}

	now := resolveNow(uc.Clock)
	var result ExecuteResult
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		if _, isMember, err := tx.GetAccount(ctx, actorID); err != nil {
			return err
		} else if !isMember {
			return domainerrors.ErrNotMember
		}

		proposal, found, err := tx.GetProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if !found || proposal.Status != entities.ProposalActive {
			return domainerrors.ErrInvalidProposal
		}
		if !proposal.Expired(now) {
			return domainerrors.ErrVotingPeriodActive
		}

		if !proposal.Passes() {
			proposal.Status = entities.ProposalRejected
			if err := tx.SaveProposal(ctx, proposal); err != nil {
				return err
			}
			result = ExecuteResult{Proposal: proposal, Outcome: "proposal rejected"}
			return appendEvent(ctx, tx, uc.IDGen, "proposal.rejected", "proposal", formatProposalID(proposal.ID), now, map[string]any{
				"proposal_id": proposal.ID,
				"yes_votes":   proposal.YesVotes,
				"no_votes":    proposal.NoVotes,
				"threshold":   proposal.ExecutionThreshold,
			})
		}

		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		if proposal.Amount > counters.TreasuryBalance {
			return domainerrors.ErrInsufficientFunds
		}
		counters.TreasuryBalance -= proposal.Amount
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}

		proposal.Status = entities.ProposalExecuted
		if err := tx.SaveProposal(ctx, proposal); err != nil {
			return err
		}

		// The creator may have exited between creation and execution; the
		// payout still goes to the recorded identity, only the ledger awards
		// are skipped.
		creator, creatorIsMember, err := tx.GetAccount(ctx, proposal.Creator)
		if err != nil {
			return err
		}
		if creatorIsMember {
			if err := adjustReputation(ctx, tx, &creator, reputationProposalExecuted, now); err != nil {
				return err
			}
			if err := tx.SaveAccount(ctx, creator); err != nil {
				return err
			}
			analytics, found, err := tx.GetAnalytics(ctx, proposal.Creator)
			if err != nil {
				return err
			}
			if found {
				analytics.SuccessfulProposals++
				if counters.TotalProposals > 0 {
					analytics.ParticipationRate = float64(creator.VotesCast) / float64(counters.TotalProposals)
				}
				if err := tx.SaveAnalytics(ctx, analytics); err != nil {
					return err
				}
			}
		}

		result = ExecuteResult{
			Proposal: proposal,
			Executed: true,
			Payout:   proposal.Amount,
			Outcome:  "proposal executed",
		}
		if err := appendEvent(ctx, tx, uc.IDGen, "proposal.executed", "proposal", formatProposalID(proposal.ID), now, map[string]any{
			"proposal_id": proposal.ID,
			"creator":     proposal.Creator,
			"payout":      proposal.Amount,
			"yes_votes":   proposal.YesVotes,
			"no_votes":    proposal.NoVotes,
		}); err != nil {
			return err
		}

		if proposal.Amount > 0 && uc.Transfers != nil {
			if err := uc.Transfers.Transfer(ctx, proposal.Creator, proposal.Amount); err != nil {
				return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return ExecuteResult{}, err
	}

	logger.Info("proposal settled",
		"event", "governance_proposal_settled",
		"module", "governance/engine",
		"layer", "application",
		"proposal_id", proposalID,
		"executed", result.Executed,
		"payout", result.Payout,
	)
	return result, nil
}

func formatProposalID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
