package entities

import "time"

// Account is the ledger record for a member. An actor is a member exactly
// while this record exists; it is created on join and deleted on exit.
type Account struct {
	ActorID            string
	Reputation         int64
	Stake              int64
	LastActivity       time.Time
	ProposalsCreated   int64
	VotesCast          int64
	CollaborationScore int64
}

// MinReputation is the floor every account is clamped to. Reputation never
// reaches zero, so membership weight never fully vanishes.
const MinReputation int64 = 1

// AdjustReputation applies a signed delta, clamps to the floor and stamps
// activity. This is the single reputation-mutation site; treasury, proposal
// and collaboration flows all route through it.
func (a *Account) AdjustReputation(delta int64, now time.Time) int64 {
	next := a.Reputation + delta
	if next < MinReputation {
		next = MinReputation
	}
	a.Reputation = next
	a.LastActivity = now
	return next
}

// Touch stamps activity without changing reputation.
func (a *Account) Touch(now time.Time) {
	a.LastActivity = now
}

// VotingPower is the weighted influence of the account at this instant:
// (reputation*10 + stake) doubled once the account has cast more than ten
// votes. It is recomputed per vote, never cached, so power moves with stake
// and reputation between ballots.
func (a Account) VotingPower() int64 {
	power := a.Reputation*10 + a.Stake
	if a.VotesCast > 10 {
		power *= 2
	}
	return power
}

// Tier buckets reputation into the profile label shown to members.
func (a Account) Tier() string {
	switch {
	case a.Reputation < 10:
		return "newcomer"
	case a.Reputation < 50:
		return "contributor"
	case a.Reputation < 100:
		return "advocate"
	default:
		return "pillar"
	}
}

// AccountAnalytics is the 1:1 companion record of an Account. It is created
// and deleted with the account; successful proposal execution and the
// collaboration registry are the only writers besides peak tracking.
type AccountAnalytics struct {
	ActorID             string
	CumulativeStakeTime int64
	SuccessfulProposals int64
	CollaborationCount  int64
	PeakReputation      int64
	ParticipationRate   float64
}

// TrackPeak records a new reputation high-water mark.
func (a *AccountAnalytics) TrackPeak(reputation int64) {
	if reputation > a.PeakReputation {
		a.PeakReputation = reputation
	}
}

// NewAccount returns the join-time ledger record.
func NewAccount(actorID string, now time.Time) Account {
	return Account{
		ActorID:      actorID,
		Reputation:   MinReputation,
		LastActivity: now,
	}
}

// NewAccountAnalytics returns the join-time analytics companion.
func NewAccountAnalytics(actorID string) AccountAnalytics {
	return AccountAnalytics{
		ActorID:        actorID,
		PeakReputation: MinReputation,
	}
}
