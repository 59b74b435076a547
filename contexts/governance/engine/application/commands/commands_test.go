package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"concord/contexts/governance/engine/adapters/memory"
	"concord/contexts/governance/engine/application/commands"
	"concord/contexts/governance/engine/domain/entities"
	domainerrors "concord/contexts/governance/engine/domain/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	store          *memory.Store
	transfers      *memory.TransferAgent
	clock          *fakeClock
	membership     commands.MembershipUseCase
	treasury       commands.TreasuryUseCase
	proposals      commands.ProposalUseCase
	votes          commands.VotingUseCase
	collaborations commands.CollaborationUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	transfers := memory.NewTransferAgent()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	idGen := memory.UUIDGenerator{}

	return &fixture{
		store:     store,
		transfers: transfers,
		clock:     clock,
		membership: commands.MembershipUseCase{
			Repo:      store,
			Transfers: transfers,
			Clock:     clock,
			IDGen:     idGen,
			OwnerID:   "owner-1",
		},
		treasury: commands.TreasuryUseCase{
			Repo:      store,
			Transfers: transfers,
			Clock:     clock,
			IDGen:     idGen,
		},
		proposals: commands.ProposalUseCase{
			Repo:      store,
			Transfers: transfers,
			Clock:     clock,
			IDGen:     idGen,
		},
		votes: commands.VotingUseCase{
			Repo:  store,
			Clock: clock,
			IDGen: idGen,
		},
		collaborations: commands.CollaborationUseCase{
			Repo:  store,
			Clock: clock,
			IDGen: idGen,
		},
	}
}

func (f *fixture) mustJoin(t *testing.T, actorID string) {
	t.Helper()
	if _, err := f.membership.Join(context.Background(), actorID); err != nil {
		t.Fatalf("join %s failed: %v", actorID, err)
	}
}

func (f *fixture) counters(t *testing.T) entities.SystemCounters {
	t.Helper()
	counters, err := f.store.GetCounters(context.Background())
	if err != nil {
		t.Fatalf("get counters failed: %v", err)
	}
	return counters
}

func (f *fixture) account(t *testing.T, actorID string) entities.Account {
	t.Helper()
	account, ok, err := f.store.GetAccount(context.Background(), actorID)
	if err != nil || !ok {
		t.Fatalf("account %s missing: ok=%v err=%v", actorID, ok, err)
	}
	return account
}

func TestJoinCreatesAccountAtFloor(t *testing.T) {
	f := newFixture()
	result, err := f.membership.Join(context.Background(), "alice")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if result.Account.Reputation != entities.MinReputation {
		t.Fatalf("expected reputation %d, got %d", entities.MinReputation, result.Account.Reputation)
	}
	if result.TotalMembers != 1 {
		t.Fatalf("expected 1 member, got %d", result.TotalMembers)
	}
	if _, ok, _ := f.store.GetAnalytics(context.Background(), "alice"); !ok {
		t.Fatalf("expected analytics companion record")
	}
}

func TestJoinRejectsExistingMember(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	if _, err := f.membership.Join(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestExitRefundsStakeAndDeletesEverything(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	if _, err := f.treasury.Stake(context.Background(), "alice", 500); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	result, err := f.membership.Exit(context.Background(), "alice")
	if err != nil {
		t.Fatalf("exit failed: %v", err)
	}
	if result.RefundedStake != 500 {
		t.Fatalf("expected refund 500, got %d", result.RefundedStake)
	}

	counters := f.counters(t)
	if counters.TotalMembers != 0 || counters.TreasuryBalance != 0 || counters.TotalStaked != 0 {
		t.Fatalf("expected empty counters after exit, got %+v", counters)
	}
	if _, ok, _ := f.store.GetAccount(context.Background(), "alice"); ok {
		t.Fatalf("expected account deleted")
	}
	if _, ok, _ := f.store.GetAnalytics(context.Background(), "alice"); ok {
		t.Fatalf("expected analytics deleted")
	}

	payouts := f.transfers.Transfers()
	if len(payouts) != 1 || payouts[0].Actor != "alice" || payouts[0].Amount != 500 {
		t.Fatalf("expected one refund payout of 500 to alice, got %+v", payouts)
	}
}

func TestRejoinStartsOver(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	if _, err := f.treasury.Contribute(context.Background(), "alice", 100); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	if _, err := f.membership.Exit(context.Background(), "alice"); err != nil {
		t.Fatalf("exit failed: %v", err)
	}

	result, err := f.membership.Join(context.Background(), "alice")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if result.Account.Reputation != entities.MinReputation {
		t.Fatalf("expected reset reputation, got %d", result.Account.Reputation)
	}
}

func TestExitAbortsWhenRefundTransferFails(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	if _, err := f.treasury.Stake(context.Background(), "alice", 300); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	f.transfers.FailNext = true
	if _, err := f.membership.Exit(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	account := f.account(t, "alice")
	if account.Stake != 300 {
		t.Fatalf("expected stake intact after failed refund, got %d", account.Stake)
	}
	counters := f.counters(t)
	if counters.TotalMembers != 1 || counters.TreasuryBalance != 300 {
		t.Fatalf("expected counters intact, got %+v", counters)
	}
}

func TestContributeFromNonMemberGrowsTreasuryWithoutAward(t *testing.T) {
	f := newFixture()
	balance, err := f.treasury.Contribute(context.Background(), "outsider", 1000)
	if err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	if balance != 1000 {
		t.Fatalf("expected balance 1000, got %d", balance)
	}
	if _, ok, _ := f.store.GetAccount(context.Background(), "outsider"); ok {
		t.Fatalf("contribution must not create an account")
	}
}

func TestContributeAwardsMemberReputation(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	if _, err := f.treasury.Contribute(context.Background(), "alice", 50); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	account := f.account(t, "alice")
	if account.Reputation != entities.MinReputation+3 {
		t.Fatalf("expected reputation %d, got %d", entities.MinReputation+3, account.Reputation)
	}
}

func TestContributeRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture()
	for _, amount := range []int64{0, -5} {
		if _, err := f.treasury.Contribute(context.Background(), "alice", amount); !errors.Is(err, domainerrors.ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestStakeRequiresMembership(t *testing.T) {
	f := newFixture()
	if _, err := f.treasury.Stake(context.Background(), "ghost", 10); !errors.Is(err, domainerrors.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestStakeAndWithdrawMoveCounters(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")

	total, err := f.treasury.Stake(context.Background(), "alice", 400)
	if err != nil || total != 400 {
		t.Fatalf("stake: total=%d err=%v", total, err)
	}
	total, err = f.treasury.Stake(context.Background(), "alice", 100)
	if err != nil || total != 500 {
		t.Fatalf("second stake: total=%d err=%v", total, err)
	}

	counters := f.counters(t)
	if counters.TreasuryBalance != 500 || counters.TotalStaked != 500 {
		t.Fatalf("expected 500/500, got %+v", counters)
	}

	total, err = f.treasury.WithdrawStake(context.Background(), "alice", 200)
	if err != nil || total != 300 {
		t.Fatalf("withdraw: total=%d err=%v", total, err)
	}
	counters = f.counters(t)
	if counters.TreasuryBalance != 300 || counters.TotalStaked != 300 {
		t.Fatalf("expected 300/300 after withdrawal, got %+v", counters)
	}
}

func TestWithdrawMoreThanStakeFails(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	if _, err := f.treasury.Stake(context.Background(), "alice", 100); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, err := f.treasury.WithdrawStake(context.Background(), "alice", 101); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestCreateProposalSnapshotsThresholdAndSequencesIDs(t *testing.T) {
	f := newFixture()
	for _, member := range []string{"alice", "bob", "carol", "dave", "erin"} {
		f.mustJoin(t, member)
	}
	if _, err := f.treasury.Contribute(context.Background(), "funder", 10_000); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}

	first, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title:       "community event",
		Description: "rent the hall",
		Amount:      2_000,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("expected proposal id 1, got %d", first.ID)
	}
	if first.ExecutionThreshold != 2 {
		t.Fatalf("expected threshold 5/2=2, got %d", first.ExecutionThreshold)
	}
	if first.Status != entities.ProposalActive {
		t.Fatalf("expected active status, got %v", first.Status)
	}

	second, err := f.proposals.Create(context.Background(), "bob", commands.CreateProposalInput{
		Title:       "tooling",
		Description: "licenses",
		Amount:      0,
	})
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("expected proposal id 2, got %d", second.ID)
	}

	creator := f.account(t, "alice")
	if creator.ProposalsCreated != 1 {
		t.Fatalf("expected one proposal recorded, got %d", creator.ProposalsCreated)
	}
	if creator.Reputation != entities.MinReputation+2 {
		t.Fatalf("expected creation award, got %d", creator.Reputation)
	}
}

func TestCreateProposalValidation(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")

	if _, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "  ", Description: "x",
	}); !errors.Is(err, domainerrors.ErrInvalidProposal) {
		t.Fatalf("expected ErrInvalidProposal for blank title, got %v", err)
	}
	if _, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d", Amount: -1,
	}); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d", Amount: 1,
	}); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds against empty treasury, got %v", err)
	}
	if _, err := f.proposals.Create(context.Background(), "ghost", commands.CreateProposalInput{
		Title: "t", Description: "d",
	}); !errors.Is(err, domainerrors.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestCastVoteSnapshotsPowerBeforeAward(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	f.mustJoin(t, "bob")
	if _, err := f.treasury.Stake(context.Background(), "bob", 90); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// bob: reputation 2 (join 1 + stake 1), stake 90 -> power 110. The +1
	// vote award must not inflate the ballot itself.
	result, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, true)
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if result.Power != 110 {
		t.Fatalf("expected power 110, got %d", result.Power)
	}
	if result.YesVotes != 110 || result.NoVotes != 0 {
		t.Fatalf("expected tally 110/0, got %d/%d", result.YesVotes, result.NoVotes)
	}

	voter := f.account(t, "bob")
	if voter.VotesCast != 1 {
		t.Fatalf("expected one vote recorded, got %d", voter.VotesCast)
	}
	if voter.Reputation != 3 {
		t.Fatalf("expected vote award, got %d", voter.Reputation)
	}
}

func TestCastVoteRejectsDuplicateWithUnchangedTally(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	f.mustJoin(t, "bob")
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	first, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, true)
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, false); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	stored, _, _ := f.store.GetProposal(context.Background(), proposal.ID)
	if stored.YesVotes != first.YesVotes || stored.NoVotes != 0 {
		t.Fatalf("tally moved on rejected duplicate: %d/%d", stored.YesVotes, stored.NoVotes)
	}
	voter := f.account(t, "bob")
	if voter.VotesCast != 1 {
		t.Fatalf("vote count moved on rejected duplicate: %d", voter.VotesCast)
	}
}

func TestCastVoteOnExpiredProposalFails(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	f.clock.Advance(commands.DefaultProposalDuration)
	if _, err := f.votes.CastVote(context.Background(), "alice", proposal.ID, true); !errors.Is(err, domainerrors.ErrProposalExpired) {
		t.Fatalf("expected ErrProposalExpired, got %v", err)
	}
}

func TestVotingPowerFailsForNonMember(t *testing.T) {
	f := newFixture()
	if _, err := f.votes.VotingPower(context.Background(), "ghost"); !errors.Is(err, domainerrors.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestExecuteBeforeExpiryFails(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.proposals.Execute(context.Background(), "alice", proposal.ID); !errors.Is(err, domainerrors.ErrVotingPeriodActive) {
		t.Fatalf("expected ErrVotingPeriodActive, got %v", err)
	}
}

func TestExecuteRejectsFailedProposalWithoutPayout(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	f.mustJoin(t, "bob")
	if _, err := f.treasury.Contribute(context.Background(), "funder", 1_000); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d", Amount: 500,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, false); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	f.clock.Advance(commands.DefaultProposalDuration)
	result, err := f.proposals.Execute(context.Background(), "alice", proposal.ID)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result.Executed {
		t.Fatalf("expected rejection")
	}
	if result.Proposal.Status != entities.ProposalRejected {
		t.Fatalf("expected rejected status, got %v", result.Proposal.Status)
	}
	if balance := f.counters(t).TreasuryBalance; balance != 1_000 {
		t.Fatalf("treasury moved on rejection: %d", balance)
	}
	if len(f.transfers.Transfers()) != 0 {
		t.Fatalf("unexpected payout on rejection")
	}

	// Terminal state: a second settlement attempt fails.
	if _, err := f.proposals.Execute(context.Background(), "alice", proposal.ID); !errors.Is(err, domainerrors.ErrInvalidProposal) {
		t.Fatalf("expected ErrInvalidProposal on settled proposal, got %v", err)
	}
}

func TestExecutePaysCreatorAndAwardsAnalytics(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	f.mustJoin(t, "bob")
	if _, err := f.treasury.Contribute(context.Background(), "funder", 1_000); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d", Amount: 600,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, true); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	f.clock.Advance(commands.DefaultProposalDuration)
	creatorBefore := f.account(t, "alice").Reputation

	result, err := f.proposals.Execute(context.Background(), "bob", proposal.ID)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !result.Executed || result.Payout != 600 {
		t.Fatalf("expected payout 600, got %+v", result)
	}
	if balance := f.counters(t).TreasuryBalance; balance != 400 {
		t.Fatalf("expected balance 400, got %d", balance)
	}

	creator := f.account(t, "alice")
	if creator.Reputation != creatorBefore+5 {
		t.Fatalf("expected execution award, got %d (before %d)", creator.Reputation, creatorBefore)
	}
	analytics, _, _ := f.store.GetAnalytics(context.Background(), "alice")
	if analytics.SuccessfulProposals != 1 {
		t.Fatalf("expected one successful proposal, got %d", analytics.SuccessfulProposals)
	}

	payouts := f.transfers.Transfers()
	if len(payouts) != 1 || payouts[0].Actor != "alice" || payouts[0].Amount != 600 {
		t.Fatalf("expected payout to creator, got %+v", payouts)
	}
}

func TestExecuteAbortsAtomicallyWhenPayoutFails(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	f.mustJoin(t, "bob")
	if _, err := f.treasury.Contribute(context.Background(), "funder", 1_000); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d", Amount: 600,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, true); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	f.clock.Advance(commands.DefaultProposalDuration)
	f.transfers.FailNext = true
	if _, err := f.proposals.Execute(context.Background(), "bob", proposal.ID); !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	stored, _, _ := f.store.GetProposal(context.Background(), proposal.ID)
	if stored.Status != entities.ProposalActive {
		t.Fatalf("expected proposal still active after failed payout, got %v", stored.Status)
	}
	if balance := f.counters(t).TreasuryBalance; balance != 1_000 {
		t.Fatalf("expected untouched balance, got %d", balance)
	}

	// Settlement succeeds on retry.
	if _, err := f.proposals.Execute(context.Background(), "bob", proposal.ID); err != nil {
		t.Fatalf("retry execute failed: %v", err)
	}
}

func TestCollaborationLifecycle(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	collaboration, err := f.collaborations.Initiate(context.Background(), "alice", "acme-org", proposal.ID, "joint grant", 7)
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if collaboration.ID != 1 || collaboration.Status != entities.CollaborationProposed {
		t.Fatalf("unexpected collaboration %+v", collaboration)
	}

	initiator := f.account(t, "alice")
	if initiator.CollaborationScore != 1 {
		t.Fatalf("expected collaboration score 1, got %d", initiator.CollaborationScore)
	}

	if _, err := f.collaborations.Accept(context.Background(), "intruder", collaboration.ID); !errors.Is(err, domainerrors.ErrPartnerMismatch) {
		t.Fatalf("expected ErrPartnerMismatch, got %v", err)
	}

	accepted, err := f.collaborations.Accept(context.Background(), "acme-org", collaboration.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != entities.CollaborationActive {
		t.Fatalf("expected active, got %v", accepted.Status)
	}

	analytics, _, _ := f.store.GetAnalytics(context.Background(), "alice")
	if analytics.CollaborationCount != 1 {
		t.Fatalf("expected collaboration count 1, got %d", analytics.CollaborationCount)
	}

	if _, err := f.collaborations.Accept(context.Background(), "acme-org", collaboration.ID); !errors.Is(err, domainerrors.ErrInvalidCollaboration) {
		t.Fatalf("expected ErrInvalidCollaboration on second accept, got %v", err)
	}
}

func TestCollaborationValidation(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")

	if _, err := f.collaborations.Initiate(context.Background(), "alice", "alice", 1, "", 0); !errors.Is(err, domainerrors.ErrInvalidCollaboration) {
		t.Fatalf("expected ErrInvalidCollaboration for self-partner, got %v", err)
	}
	if _, err := f.collaborations.Initiate(context.Background(), "alice", "acme-org", 99, "", 0); !errors.Is(err, domainerrors.ErrInvalidProposal) {
		t.Fatalf("expected ErrInvalidProposal for missing proposal, got %v", err)
	}
	if _, err := f.collaborations.Accept(context.Background(), "acme-org", 42); !errors.Is(err, domainerrors.ErrCollaborationNotFound) {
		t.Fatalf("expected ErrCollaborationNotFound, got %v", err)
	}
}

func TestAdjustReputationIsOwnerGated(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")

	if _, err := f.membership.AdjustReputation(context.Background(), "alice", "alice", 10); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	updated, err := f.membership.AdjustReputation(context.Background(), "owner-1", "alice", 10)
	if err != nil {
		t.Fatalf("owner adjust failed: %v", err)
	}
	if updated != entities.MinReputation+10 {
		t.Fatalf("expected %d, got %d", entities.MinReputation+10, updated)
	}

	// Negative deltas clamp at the floor rather than erasing the account.
	updated, err = f.membership.AdjustReputation(context.Background(), "owner-1", "alice", -1000)
	if err != nil {
		t.Fatalf("owner adjust failed: %v", err)
	}
	if updated != entities.MinReputation {
		t.Fatalf("expected floor, got %d", updated)
	}
}

// Treasury conservation: balance always equals contributions plus stakes
// minus withdrawals, refunds and payouts.
func TestTreasuryConservation(t *testing.T) {
	f := newFixture()
	f.mustJoin(t, "alice")
	f.mustJoin(t, "bob")

	if _, err := f.treasury.Contribute(context.Background(), "alice", 1_000); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	if _, err := f.treasury.Stake(context.Background(), "bob", 400); err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if _, err := f.treasury.WithdrawStake(context.Background(), "bob", 150); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	proposal, err := f.proposals.Create(context.Background(), "alice", commands.CreateProposalInput{
		Title: "t", Description: "d", Amount: 300,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.votes.CastVote(context.Background(), "bob", proposal.ID, true); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	f.clock.Advance(commands.DefaultProposalDuration)
	if _, err := f.proposals.Execute(context.Background(), "bob", proposal.ID); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if _, err := f.membership.Exit(context.Background(), "bob"); err != nil {
		t.Fatalf("exit failed: %v", err)
	}

	// 1000 + 400 - 150 - 300 payout - 250 refund = 700
	if balance := f.counters(t).TreasuryBalance; balance != 700 {
		t.Fatalf("expected balance 700, got %d", balance)
	}
}
