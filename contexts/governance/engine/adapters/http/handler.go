package httpadapter

import (
	"context"
	"log/slog"

	"concord/contexts/governance/engine/application/commands"
	"concord/contexts/governance/engine/application/queries"
	"concord/contexts/governance/engine/application/workers"
	"concord/contexts/governance/engine/domain/entities"
	httptransport "concord/contexts/governance/engine/transport/http"
)

// Handler maps transport DTOs onto the application use cases. Identity always
// arrives as the resolved actor ID; the handler never reads headers itself.
type Handler struct {
	Membership     commands.MembershipUseCase
	Treasury       commands.TreasuryUseCase
	Proposals      commands.ProposalUseCase
	Votes          commands.VotingUseCase
	Collaborations commands.CollaborationUseCase
	Queries        queries.QueryUseCase
	Decay          workers.DecaySweep
	Logger         *slog.Logger
}

// JoinHandler godoc
// @Summary Join the organization
// @Description Creates a member account with reputation at the floor.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Success 200 {object} httptransport.JoinResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/members/join [post]
func (h Handler) JoinHandler(ctx context.Context, actorID string) (httptransport.JoinResponse, error) {
	result, err := h.Membership.Join(ctx, actorID)
	if err != nil {
		return httptransport.JoinResponse{}, err
	}
	return httptransport.JoinResponse{
		Message:      "welcome to the organization",
		ActorID:      result.Account.ActorID,
		Reputation:   result.Account.Reputation,
		TotalMembers: result.TotalMembers,
	}, nil
}

// ExitHandler godoc
// @Summary Leave the organization
// @Description Refunds held stake and removes the account.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Success 200 {object} httptransport.ExitResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/members/exit [post]
func (h Handler) ExitHandler(ctx context.Context, actorID string) (httptransport.ExitResponse, error) {
	result, err := h.Membership.Exit(ctx, actorID)
	if err != nil {
		return httptransport.ExitResponse{}, err
	}
	return httptransport.ExitResponse{
		Message:       "membership closed",
		RefundedStake: result.RefundedStake,
		TotalMembers:  result.TotalMembers,
	}, nil
}

// AdjustReputationHandler godoc
// @Summary Adjust a member's reputation
// @Description Owner-only administrative reputation adjustment.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity (must be the owner)"
// @Param request body httptransport.AdjustReputationRequest true "Adjustment"
// @Success 200 {object} httptransport.AdjustReputationResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/admin/reputation [post]
func (h Handler) AdjustReputationHandler(
	ctx context.Context,
	callerID string,
	req httptransport.AdjustReputationRequest,
) (httptransport.AdjustReputationResponse, error) {
	reputation, err := h.Membership.AdjustReputation(ctx, callerID, req.ActorID, req.Delta)
	if err != nil {
		return httptransport.AdjustReputationResponse{}, err
	}
	return httptransport.AdjustReputationResponse{
		ActorID:    req.ActorID,
		Reputation: reputation,
	}, nil
}

// ContributeHandler godoc
// @Summary Contribute to the treasury
// @Description Moves value into custody; members earn a reputation award.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param request body httptransport.AmountRequest true "Contribution amount"
// @Success 200 {object} httptransport.ContributeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/treasury/contribute [post]
func (h Handler) ContributeHandler(
	ctx context.Context,
	actorID string,
	req httptransport.AmountRequest,
) (httptransport.ContributeResponse, error) {
	balance, err := h.Treasury.Contribute(ctx, actorID, req.Amount)
	if err != nil {
		return httptransport.ContributeResponse{}, err
	}
	return httptransport.ContributeResponse{
		Message:         "contribution received",
		TreasuryBalance: balance,
	}, nil
}

// StakeHandler godoc
// @Summary Stake into the treasury
// @Description Deposits stake against the member's account.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param request body httptransport.AmountRequest true "Stake amount"
// @Success 200 {object} httptransport.StakeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/treasury/stake [post]
func (h Handler) StakeHandler(
	ctx context.Context,
	actorID string,
	req httptransport.AmountRequest,
) (httptransport.StakeResponse, error) {
	total, err := h.Treasury.Stake(ctx, actorID, req.Amount)
	if err != nil {
		return httptransport.StakeResponse{}, err
	}
	return httptransport.StakeResponse{StakeTotal: total}, nil
}

// WithdrawStakeHandler godoc
// @Summary Withdraw stake
// @Description Pays part of the member's stake back out of custody.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param request body httptransport.AmountRequest true "Withdrawal amount"
// @Success 200 {object} httptransport.StakeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/treasury/withdraw [post]
func (h Handler) WithdrawStakeHandler(
	ctx context.Context,
	actorID string,
	req httptransport.AmountRequest,
) (httptransport.StakeResponse, error) {
	total, err := h.Treasury.WithdrawStake(ctx, actorID, req.Amount)
	if err != nil {
		return httptransport.StakeResponse{}, err
	}
	return httptransport.StakeResponse{StakeTotal: total}, nil
}

// CreateProposalHandler godoc
// @Summary Create a proposal
// @Description Opens the voting window and snapshots the execution threshold.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param request body httptransport.CreateProposalRequest true "Proposal"
// @Success 200 {object} httptransport.ProposalResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/proposals [post]
func (h Handler) CreateProposalHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Proposals.Create(ctx, actorID, commands.CreateProposalInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return toProposalResponse(proposal), nil
}

// CastVoteHandler godoc
// @Summary Cast a vote
// @Description Records a write-once weighted ballot on an active proposal.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param proposal_id path int true "Proposal id"
// @Param request body httptransport.CastVoteRequest true "Ballot choice"
// @Success 200 {object} httptransport.CastVoteResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/proposals/{proposal_id}/votes [post]
func (h Handler) CastVoteHandler(
	ctx context.Context,
	actorID string,
	proposalID uint64,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, actorID, proposalID, req.Choice)
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		ProposalID: result.Ballot.ProposalID,
		Voter:      result.Ballot.Voter,
		Choice:     result.Ballot.Choice,
		Power:      result.Power,
		YesVotes:   result.YesVotes,
		NoVotes:    result.NoVotes,
	}, nil
}

// ExecuteProposalHandler godoc
// @Summary Execute a proposal
// @Description Settles an active proposal after its voting window closes.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param proposal_id path int true "Proposal id"
// @Success 200 {object} httptransport.ExecuteProposalResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/proposals/{proposal_id}/execute [post]
func (h Handler) ExecuteProposalHandler(
	ctx context.Context,
	actorID string,
	proposalID uint64,
) (httptransport.ExecuteProposalResponse, error) {
	result, err := h.Proposals.Execute(ctx, actorID, proposalID)
	if err != nil {
		return httptransport.ExecuteProposalResponse{}, err
	}
	return httptransport.ExecuteProposalResponse{
		ProposalID: result.Proposal.ID,
		Outcome:    result.Outcome,
		Executed:   result.Executed,
		Payout:     result.Payout,
	}, nil
}

// GetProposalHandler godoc
// @Summary Get proposal details
// @Description Returns the proposal with approval rate and time remaining.
// @Tags governance-engine
// @Produce json
// @Param proposal_id path int true "Proposal id"
// @Success 200 {object} httptransport.ProposalViewResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/proposals/{proposal_id} [get]
func (h Handler) GetProposalHandler(ctx context.Context, proposalID uint64) (httptransport.ProposalViewResponse, error) {
	view, err := h.Queries.Proposal(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalViewResponse{}, err
	}
	return httptransport.ProposalViewResponse{
		ProposalResponse:     toProposalResponse(view.Proposal),
		ApprovalRate:         view.ApprovalRate,
		TimeRemainingSeconds: int64(view.TimeRemaining.Seconds()),
	}, nil
}

// InitiateCollaborationHandler godoc
// @Summary Initiate a collaboration
// @Description Opens a proposed collaboration naming an external partner org.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity"
// @Param request body httptransport.InitiateCollaborationRequest true "Collaboration"
// @Success 200 {object} httptransport.CollaborationResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/collaborations [post]
func (h Handler) InitiateCollaborationHandler(
	ctx context.Context,
	actorID string,
	req httptransport.InitiateCollaborationRequest,
) (httptransport.CollaborationResponse, error) {
	collaboration, err := h.Collaborations.Initiate(
		ctx,
		actorID,
		req.PartnerOrg,
		req.ProposalID,
		req.Terms,
		req.ExpectedBenefit,
	)
	if err != nil {
		return httptransport.CollaborationResponse{}, err
	}
	return toCollaborationResponse(collaboration), nil
}

// AcceptCollaborationHandler godoc
// @Summary Accept a collaboration
// @Description Partner-org acceptance; transitions proposed to active.
// @Tags governance-engine
// @Accept json
// @Produce json
// @Param X-Actor-Id header string true "Acting identity (must be the partner org)"
// @Param collaboration_id path int true "Collaboration id"
// @Success 200 {object} httptransport.CollaborationResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/collaborations/{collaboration_id}/accept [post]
func (h Handler) AcceptCollaborationHandler(
	ctx context.Context,
	actorID string,
	collaborationID uint64,
) (httptransport.CollaborationResponse, error) {
	collaboration, err := h.Collaborations.Accept(ctx, actorID, collaborationID)
	if err != nil {
		return httptransport.CollaborationResponse{}, err
	}
	return toCollaborationResponse(collaboration), nil
}

// AccountProfileHandler godoc
// @Summary Get a member profile
// @Description Ledger record plus analytics, voting power and tier.
// @Tags governance-engine
// @Produce json
// @Param actor_id path string true "Member id"
// @Success 200 {object} httptransport.AccountProfileResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/members/{actor_id}/profile [get]
func (h Handler) AccountProfileHandler(ctx context.Context, actorID string) (httptransport.AccountProfileResponse, error) {
	profile, err := h.Queries.AccountProfile(ctx, actorID)
	if err != nil {
		return httptransport.AccountProfileResponse{}, err
	}
	return httptransport.AccountProfileResponse{
		ActorID:             profile.Account.ActorID,
		Reputation:          profile.Account.Reputation,
		Stake:               profile.Account.Stake,
		VotingPower:         profile.VotingPower,
		Tier:                profile.Tier,
		LastActivity:        profile.Account.LastActivity.UTC(),
		ProposalsCreated:    profile.Account.ProposalsCreated,
		VotesCast:           profile.Account.VotesCast,
		CollaborationScore:  profile.Account.CollaborationScore,
		SuccessfulProposals: profile.Analytics.SuccessfulProposals,
		CollaborationCount:  profile.Analytics.CollaborationCount,
		PeakReputation:      profile.Analytics.PeakReputation,
		ParticipationRate:   profile.Analytics.ParticipationRate,
	}, nil
}

// TreasuryStatusHandler godoc
// @Summary Get treasury status
// @Tags governance-engine
// @Produce json
// @Success 200 {object} httptransport.TreasuryStatusResponse
// @Router /api/governance/v1/treasury/status [get]
func (h Handler) TreasuryStatusHandler(ctx context.Context) (httptransport.TreasuryStatusResponse, error) {
	status, err := h.Queries.TreasuryStatus(ctx)
	if err != nil {
		return httptransport.TreasuryStatusResponse{}, err
	}
	return httptransport.TreasuryStatusResponse{
		Balance:      status.Balance,
		TotalMembers: status.TotalMembers,
		AverageStake: status.AverageStake,
	}, nil
}

// SystemStatisticsHandler godoc
// @Summary Get system statistics
// @Tags governance-engine
// @Produce json
// @Success 200 {object} httptransport.SystemStatisticsResponse
// @Router /api/governance/v1/statistics [get]
func (h Handler) SystemStatisticsHandler(ctx context.Context) (httptransport.SystemStatisticsResponse, error) {
	stats, err := h.Queries.SystemStatistics(ctx)
	if err != nil {
		return httptransport.SystemStatisticsResponse{}, err
	}
	return httptransport.SystemStatisticsResponse{
		TotalMembers:        stats.Counters.TotalMembers,
		TotalProposals:      stats.Counters.TotalProposals,
		TotalCollaborations: stats.Counters.TotalCollaborations,
		TreasuryBalance:     stats.Counters.TreasuryBalance,
		Health:              stats.Health,
	}, nil
}

// DecaySweepHandler godoc
// @Summary Run a reputation decay sweep
// @Description Owner-only batch decay over inactive accounts.
// @Tags governance-engine
// @Produce json
// @Param X-Actor-Id header string true "Acting identity (must be the owner)"
// @Success 200 {object} httptransport.DecaySweepResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/governance/v1/admin/decay [post]
func (h Handler) DecaySweepHandler(ctx context.Context, actorID string) (httptransport.DecaySweepResponse, error) {
	decayed, err := h.Decay.RunOnce(ctx, actorID)
	if err != nil {
		return httptransport.DecaySweepResponse{}, err
	}
	return httptransport.DecaySweepResponse{Decayed: decayed}, nil
}

func toProposalResponse(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:         proposal.ID,
		Creator:            proposal.Creator,
		Title:              proposal.Title,
		Description:        proposal.Description,
		Amount:             proposal.Amount,
		YesVotes:           proposal.YesVotes,
		NoVotes:            proposal.NoVotes,
		Status:             proposal.Status.String(),
		CreatedAt:          proposal.CreatedAt.UTC(),
		ExpiresAt:          proposal.ExpiresAt.UTC(),
		ExecutionThreshold: proposal.ExecutionThreshold,
		Category:           proposal.Category,
	}
}

func toCollaborationResponse(c entities.Collaboration) httptransport.CollaborationResponse {
	return httptransport.CollaborationResponse{
		CollaborationID:    c.ID,
		Initiator:          c.Initiator,
		PartnerOrg:         c.PartnerOrg,
		ProposalID:         c.ProposalID,
		Status:             c.Status.String(),
		CreatedAt:          c.CreatedAt.UTC(),
		Terms:              c.Terms,
		MutualBenefitScore: c.MutualBenefitScore,
	}
}
