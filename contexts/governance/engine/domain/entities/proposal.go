package entities

import "time"

// ProposalStatus captures the proposal lifecycle. Active is the only
// non-terminal state.
type ProposalStatus uint8

const (
	ProposalStatusUnspecified ProposalStatus = 0
	ProposalActive            ProposalStatus = 1
	ProposalExecuted          ProposalStatus = 2
	ProposalRejected          ProposalStatus = 3
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalActive:
		return "active"
	case ProposalExecuted:
		return "executed"
	case ProposalRejected:
		return "rejected"
	default:
		return "unspecified"
	}
}

// Proposal is a funding request against the shared treasury. Once status
// leaves Active the record is immutable; while Active only the two tally
// fields move.
type Proposal struct {
	ID          uint64
	Creator     string
	Title       string
	Description string
	Amount      int64
	YesVotes    int64
	NoVotes     int64
	Status      ProposalStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	// ExecutionThreshold is totalMembers/2 snapshotted at creation. Creation
	// requires membership, so the snapshot is taken with at least one member;
	// with exactly one member it is 0 and any positive yes weight clears it.
	ExecutionThreshold int64
	Category           string
}

// Expired reports whether the voting window has closed.
func (p Proposal) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Passes applies the decision rule: strict majority and strictly above the
// member-count threshold. Ties and threshold-equal tallies fail.
func (p Proposal) Passes() bool {
	return p.YesVotes > p.NoVotes && p.YesVotes > p.ExecutionThreshold
}

// ApprovalRate is yes weight over total weight, 0 when nobody voted.
func (p Proposal) ApprovalRate() float64 {
	total := p.YesVotes + p.NoVotes
	if total == 0 {
		return 0
	}
	return float64(p.YesVotes) / float64(total)
}

// TimeRemaining is the open voting window, clamped to zero after expiry.
func (p Proposal) TimeRemaining(now time.Time) time.Duration {
	if p.Expired(now) {
		return 0
	}
	return p.ExpiresAt.Sub(now)
}

// Ballot is the write-once record of one actor's vote on one proposal. The
// (ProposalID, Voter) pair is unique; it is never mutated or deleted.
type Ballot struct {
	ProposalID        uint64
	Voter             string
	Choice            bool
	VotingPowerAtCast int64
	CastAt            time.Time
}
