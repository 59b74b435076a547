package commands

import (
	"context"
	"log/slog"
	"strings"

	application "concord/contexts/governance/engine/application"
	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	"concord/contexts/governance/engine/ports"
)

const reputationVoteCast = 1

// VotingUseCase computes voting power from the account ledger and records one
// write-once ballot per (proposal, actor) pair.
type VotingUseCase struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CastVoteResult returns the weight that was applied, so callers can observe
// exactly how much influence the ballot carried.
type CastVoteResult struct {
	Ballot   entities.Ballot
	Power    int64
	YesVotes int64
	NoVotes  int64
}

// VotingPower recomputes the actor's current weight. It fails for
// non-members rather than defaulting to zero: a zero-power ballot would
// still consume the actor's one vote on the proposal.
func (uc VotingUseCase) VotingPower(ctx context.Context, actorID string) (int64, error) {
	account, isMember, err := uc.Repo.GetAccount(ctx, strings.TrimSpace(actorID))
	if err != nil {
		return 0, err
	}
	if !isMember {
		return 0, domainerrors.ErrNotMember
	}
	return account.VotingPower(), nil
}

// CastVote records the ballot at the actor's current power and moves the
// proposal tally. The power snapshot is taken before the vote's own
// reputation award and vote-count increment land.
func (uc VotingUseCase) CastVote(
	ctx context.Context,
	actorID string,
	proposalID uint64,
	choice bool,
) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidActor
	}

	now := resolveNow(uc.Clock)
	var result CastVoteResult
	err := uc.Repo.Atomically(ctx, func(tx ports.Repository) error {
		account, isMember, err := tx.GetAccount(ctx, actorID)
		if err != nil {
			return err
		}
		if !isMember {
			return domainerrors.ErrNotMember
		}

		proposal, found, err := tx.GetProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if !found || proposal.Status != entities.ProposalActive {
			return domainerrors.ErrInvalidProposal
		}
		if proposal.Expired(now) {
			return domainerrors.ErrProposalExpired
		}

		if _, voted, err := tx.GetBallot(ctx, proposalID, actorID); err != nil {
			return err
		} else if voted {
			return domainerrors.ErrAlreadyVoted
		}

		power := account.VotingPower()
		ballot := entities.Ballot{
			ProposalID:        proposalID,
			Voter:             actorID,
			Choice:            choice,
			VotingPowerAtCast: power,
			CastAt:            now,
		}
		if err := tx.SaveBallot(ctx, ballot); err != nil {
			return err
		}

		if choice {
			proposal.YesVotes += power
		} else {
			proposal.NoVotes += power
		}
		if err := tx.SaveProposal(ctx, proposal); err != nil {
			return err
		}

		account.VotesCast++
		if err := adjustReputation(ctx, tx, &account, reputationVoteCast, now); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}

		result = CastVoteResult{
			Ballot:   ballot,
			Power:    power,
			YesVotes: proposal.YesVotes,
			NoVotes:  proposal.NoVotes,
		}
		return appendEvent(ctx, tx, uc.IDGen, "vote.cast", "proposal", formatProposalID(proposalID), now, map[string]any{
			"proposal_id": proposalID,
			"voter":       actorID,
			"choice":      choice,
			"power":       power,
			"yes_votes":   proposal.YesVotes,
			"no_votes":    proposal.NoVotes,
		})
	})
	if err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "governance_vote_cast",
		"module", "governance/engine",
		"layer", "application",
		"proposal_id", proposalID,
		"voter", actorID,
		"choice", choice,
		"power", result.Power,
	)
	return result, nil
}
