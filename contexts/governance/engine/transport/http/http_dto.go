package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type JoinResponse struct {
	Message      string `json:"message"`
	ActorID      string `json:"actor_id"`
	Reputation   int64  `json:"reputation"`
	TotalMembers int64  `json:"total_members"`
}

type ExitResponse struct {
	Message       string `json:"message"`
	RefundedStake int64  `json:"refunded_stake"`
	TotalMembers  int64  `json:"total_members"`
}

type AdjustReputationRequest struct {
	ActorID string `json:"actor_id"`
	Delta   int64  `json:"delta"`
}

type AdjustReputationResponse struct {
	ActorID    string `json:"actor_id"`
	Reputation int64  `json:"reputation"`
}

type AmountRequest struct {
	Amount int64 `json:"amount"`
}

type ContributeResponse struct {
	Message         string `json:"message"`
	TreasuryBalance int64  `json:"treasury_balance"`
}

type StakeResponse struct {
	StakeTotal int64 `json:"stake_total"`
}

type CreateProposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
}

type ProposalResponse struct {
	ProposalID         uint64    `json:"proposal_id"`
	Creator            string    `json:"creator"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Amount             int64     `json:"amount"`
	YesVotes           int64     `json:"yes_votes"`
	NoVotes            int64     `json:"no_votes"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	ExpiresAt          time.Time `json:"expires_at"`
	ExecutionThreshold int64     `json:"execution_threshold"`
	Category           string    `json:"category,omitempty"`
}

type ProposalViewResponse struct {
	ProposalResponse
	ApprovalRate         float64 `json:"approval_rate"`
	TimeRemainingSeconds int64   `json:"time_remaining_seconds"`
}

type CastVoteRequest struct {
	Choice bool `json:"choice"`
}

type CastVoteResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Choice     bool   `json:"choice"`
	Power      int64  `json:"power"`
	YesVotes   int64  `json:"yes_votes"`
	NoVotes    int64  `json:"no_votes"`
}

type ExecuteProposalResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Outcome    string `json:"outcome"`
	Executed   bool   `json:"executed"`
	Payout     int64  `json:"payout,omitempty"`
}

type InitiateCollaborationRequest struct {
	PartnerOrg      string `json:"partner_org"`
	ProposalID      uint64 `json:"proposal_id"`
	Terms           string `json:"terms"`
	ExpectedBenefit int64  `json:"expected_benefit"`
}

type CollaborationResponse struct {
	CollaborationID    uint64    `json:"collaboration_id"`
	Initiator          string    `json:"initiator"`
	PartnerOrg         string    `json:"partner_org"`
	ProposalID         uint64    `json:"proposal_id"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	Terms              string    `json:"terms,omitempty"`
	MutualBenefitScore int64     `json:"mutual_benefit_score"`
}

type AccountProfileResponse struct {
	ActorID             string    `json:"actor_id"`
	Reputation          int64     `json:"reputation"`
	Stake               int64     `json:"stake"`
	VotingPower         int64     `json:"voting_power"`
	Tier                string    `json:"tier"`
	LastActivity        time.Time `json:"last_activity"`
	ProposalsCreated    int64     `json:"proposals_created"`
	VotesCast           int64     `json:"votes_cast"`
	CollaborationScore  int64     `json:"collaboration_score"`
	SuccessfulProposals int64     `json:"successful_proposals"`
	CollaborationCount  int64     `json:"collaboration_count"`
	PeakReputation      int64     `json:"peak_reputation"`
	ParticipationRate   float64   `json:"participation_rate"`
}

type TreasuryStatusResponse struct {
	Balance      int64 `json:"balance"`
	TotalMembers int64 `json:"total_members"`
	AverageStake int64 `json:"average_stake"`
}

type SystemStatisticsResponse struct {
	TotalMembers        int64  `json:"total_members"`
	TotalProposals      int64  `json:"total_proposals"`
	TotalCollaborations int64  `json:"total_collaborations"`
	TreasuryBalance     int64  `json:"treasury_balance"`
	Health              string `json:"health"`
}

type DecaySweepResponse struct {
	Decayed int `json:"decayed"`
}
