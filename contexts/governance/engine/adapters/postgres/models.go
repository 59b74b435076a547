package postgresadapter

import (
	"time"

	"concord/contexts/governance/engine/domain/entities"
)

type accountModel struct {
	ActorID            string    `gorm:"column:actor_id;primaryKey"`
	Reputation         int64     `gorm:"column:reputation"`
	Stake              int64     `gorm:"column:stake"`
	LastActivity       time.Time `gorm:"column:last_activity"`
	ProposalsCreated   int64     `gorm:"column:proposals_created"`
	VotesCast          int64     `gorm:"column:votes_cast"`
	CollaborationScore int64     `gorm:"column:collaboration_score"`
}

func (accountModel) TableName() string { return "accounts" }

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		ActorID:            account.ActorID,
		Reputation:         account.Reputation,
		Stake:              account.Stake,
		LastActivity:       account.LastActivity.UTC(),
		ProposalsCreated:   account.ProposalsCreated,
		VotesCast:          account.VotesCast,
		CollaborationScore: account.CollaborationScore,
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		ActorID:            m.ActorID,
		Reputation:         m.Reputation,
		Stake:              m.Stake,
		LastActivity:       m.LastActivity,
		ProposalsCreated:   m.ProposalsCreated,
		VotesCast:          m.VotesCast,
		CollaborationScore: m.CollaborationScore,
	}
}

type accountAnalyticsModel struct {
	ActorID             string  `gorm:"column:actor_id;primaryKey"`
	CumulativeStakeTime int64   `gorm:"column:cumulative_stake_time"`
	SuccessfulProposals int64   `gorm:"column:successful_proposals"`
	CollaborationCount  int64   `gorm:"column:collaboration_count"`
	PeakReputation      int64   `gorm:"column:peak_reputation"`
	ParticipationRate   float64 `gorm:"column:participation_rate"`
}

func (accountAnalyticsModel) TableName() string { return "account_analytics" }

func analyticsModelFromEntity(analytics entities.AccountAnalytics) accountAnalyticsModel {
	return accountAnalyticsModel{
		ActorID:             analytics.ActorID,
		CumulativeStakeTime: analytics.CumulativeStakeTime,
		SuccessfulProposals: analytics.SuccessfulProposals,
		CollaborationCount:  analytics.CollaborationCount,
		PeakReputation:      analytics.PeakReputation,
		ParticipationRate:   analytics.ParticipationRate,
	}
}

func (m accountAnalyticsModel) toEntity() entities.AccountAnalytics {
	return entities.AccountAnalytics{
		ActorID:             m.ActorID,
		CumulativeStakeTime: m.CumulativeStakeTime,
		SuccessfulProposals: m.SuccessfulProposals,
		CollaborationCount:  m.CollaborationCount,
		PeakReputation:      m.PeakReputation,
		ParticipationRate:   m.ParticipationRate,
	}
}

type proposalModel struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Creator            string    `gorm:"column:creator"`
	Title              string    `gorm:"column:title"`
	Description        string    `gorm:"column:description"`
	Amount             int64     `gorm:"column:amount"`
	YesVotes           int64     `gorm:"column:yes_votes"`
	NoVotes            int64     `gorm:"column:no_votes"`
	Status             string    `gorm:"column:status"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	ExpiresAt          time.Time `gorm:"column:expires_at"`
	ExecutionThreshold int64     `gorm:"column:execution_threshold"`
	Category           string    `gorm:"column:category"`
}

func (proposalModel) TableName() string { return "proposals" }

func proposalModelFromEntity(proposal entities.Proposal) proposalModel {
	return proposalModel{
		ID:                 proposal.ID,
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

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ID:                 m.ID,
		Creator:            m.Creator,
		Title:              m.Title,
		Description:        m.Description,
		Amount:             m.Amount,
		YesVotes:           m.YesVotes,
		NoVotes:            m.NoVotes,
		Status:             parseProposalStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		ExpiresAt:          m.ExpiresAt,
		ExecutionThreshold: m.ExecutionThreshold,
		Category:           m.Category,
	}
}

func parseProposalStatus(raw string) entities.ProposalStatus {
	switch raw {
	case "active":
		return entities.ProposalActive
	case "executed":
		return entities.ProposalExecuted
	case "rejected":
		return entities.ProposalRejected
	default:
		return entities.ProposalStatusUnspecified
	}
}

type ballotModel struct {
	ProposalID        uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement:false"`
	Voter             string    `gorm:"column:voter;primaryKey"`
	Choice            bool      `gorm:"column:choice"`
	VotingPowerAtCast int64     `gorm:"column:voting_power_at_cast"`
	CastAt            time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string { return "ballots" }

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	return ballotModel{
		ProposalID:        ballot.ProposalID,
		Voter:             ballot.Voter,
		Choice:            ballot.Choice,
		VotingPowerAtCast: ballot.VotingPowerAtCast,
		CastAt:            ballot.CastAt.UTC(),
	}
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		ProposalID:        m.ProposalID,
		Voter:             m.Voter,
		Choice:            m.Choice,
		VotingPowerAtCast: m.VotingPowerAtCast,
		CastAt:            m.CastAt,
	}
}

type collaborationModel struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Initiator          string    `gorm:"column:initiator"`
	PartnerOrg         string    `gorm:"column:partner_org"`
	ProposalID         uint64    `gorm:"column:proposal_id"`
	Status             string    `gorm:"column:status"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	Terms              string    `gorm:"column:terms"`
	MutualBenefitScore int64     `gorm:"column:mutual_benefit_score"`
}

func (collaborationModel) TableName() string { return "collaborations" }

func collaborationModelFromEntity(collaboration entities.Collaboration) collaborationModel {
	return collaborationModel{
		ID:                 collaboration.ID,
		Initiator:          collaboration.Initiator,
		PartnerOrg:         collaboration.PartnerOrg,
		ProposalID:         collaboration.ProposalID,
		Status:             collaboration.Status.String(),
		CreatedAt:          collaboration.CreatedAt.UTC(),
		Terms:              collaboration.Terms,
		MutualBenefitScore: collaboration.MutualBenefitScore,
	}
}

func (m collaborationModel) toEntity() entities.Collaboration {
	return entities.Collaboration{
		ID:                 m.ID,
		Initiator:          m.Initiator,
		PartnerOrg:         m.PartnerOrg,
		ProposalID:         m.ProposalID,
		Status:             parseCollaborationStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		Terms:              m.Terms,
		MutualBenefitScore: m.MutualBenefitScore,
	}
}

func parseCollaborationStatus(raw string) entities.CollaborationStatus {
	switch raw {
	case "proposed":
		return entities.CollaborationProposed
	case "active":
		return entities.CollaborationActive
	default:
		return entities.CollaborationStatusUnspecified
	}
}

// countersModel is a singleton row; every read and write targets ID 1.
type countersModel struct {
	ID                  int64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	TotalMembers        int64 `gorm:"column:total_members"`
	TotalProposals      int64 `gorm:"column:total_proposals"`
	TotalCollaborations int64 `gorm:"column:total_collaborations"`
	TreasuryBalance     int64 `gorm:"column:treasury_balance"`
	TotalStaked         int64 `gorm:"column:total_staked"`
}

func (countersModel) TableName() string { return "system_counters" }

const countersRowID int64 = 1

func countersModelFromEntity(counters entities.SystemCounters) countersModel {
	return countersModel{
		ID:                  countersRowID,
		TotalMembers:        counters.TotalMembers,
		TotalProposals:      counters.TotalProposals,
		TotalCollaborations: counters.TotalCollaborations,
		TreasuryBalance:     counters.TreasuryBalance,
		TotalStaked:         counters.TotalStaked,
	}
}

func (m countersModel) toEntity() entities.SystemCounters {
	return entities.SystemCounters{
		TotalMembers:        m.TotalMembers,
		TotalProposals:      m.TotalProposals,
		TotalCollaborations: m.TotalCollaborations,
		TreasuryBalance:     m.TreasuryBalance,
		TotalStaked:         m.TotalStaked,
	}
}

type outboxModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	EventType  string    `gorm:"column:event_type"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
	Status     string    `gorm:"column:status;index"`
	RetryCount int       `gorm:"column:retry_count"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "governance_outbox" }
