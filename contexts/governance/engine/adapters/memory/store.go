package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"concord/contexts/governance/engine/domain/entities"
	"concord/contexts/governance/engine/ports"
	"concord/internal/shared/outbox"
)

type ballotKey struct {
	ProposalID uint64
	Voter      string
}

// state is the whole keyed store. Atomically stages writes on a deep copy
// and swaps the pointer on success, which gives the all-or-nothing contract
// without any per-record undo bookkeeping.
type state struct {
	accounts       map[string]entities.Account
	analytics      map[string]entities.AccountAnalytics
	proposals      map[uint64]entities.Proposal
	ballots        map[ballotKey]entities.Ballot
	collaborations map[uint64]entities.Collaboration
	counters       entities.SystemCounters
	outbox         []outbox.Message
}

func newState() *state {
	return &state{
		accounts:       make(map[string]entities.Account),
		analytics:      make(map[string]entities.AccountAnalytics),
		proposals:      make(map[uint64]entities.Proposal),
		ballots:        make(map[ballotKey]entities.Ballot),
		collaborations: make(map[uint64]entities.Collaboration),
	}
}

func (st *state) clone() *state {
	next := &state{
		accounts:       make(map[string]entities.Account, len(st.accounts)),
		analytics:      make(map[string]entities.AccountAnalytics, len(st.analytics)),
		proposals:      make(map[uint64]entities.Proposal, len(st.proposals)),
		ballots:        make(map[ballotKey]entities.Ballot, len(st.ballots)),
		collaborations: make(map[uint64]entities.Collaboration, len(st.collaborations)),
		counters:       st.counters,
		outbox:         append([]outbox.Message(nil), st.outbox...),
	}
	for k, v := range st.accounts {
		next.accounts[k] = v
	}
	for k, v := range st.analytics {
		next.analytics[k] = v
	}
	for k, v := range st.proposals {
		next.proposals[k] = v
	}
	for k, v := range st.ballots {
		next.ballots[k] = v
	}
	for k, v := range st.collaborations {
		next.collaborations[k] = v
	}
	return next
}

// Store is the in-memory repository used by tests and dev wiring.
type Store struct {
	mu    sync.RWMutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// Atomically clones current state, lets fn stage writes against the clone
// and publishes the clone only when fn succeeds. The store-wide mutex is the
// single serialization point; operations never interleave.
func (s *Store) Atomically(_ context.Context, fn func(tx ports.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.clone()
	if err := fn(&txRepo{st: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

func (s *Store) GetAccount(ctx context.Context, actorID string) (entities.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).GetAccount(ctx, actorID)
}

func (s *Store) SaveAccount(ctx context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).SaveAccount(ctx, account)
}

func (s *Store) DeleteAccount(ctx context.Context, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).DeleteAccount(ctx, actorID)
}

func (s *Store) ListInactiveAccounts(ctx context.Context, cutoff time.Time, limit int) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).ListInactiveAccounts(ctx, cutoff, limit)
}

func (s *Store) GetAnalytics(ctx context.Context, actorID string) (entities.AccountAnalytics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).GetAnalytics(ctx, actorID)
}

func (s *Store) SaveAnalytics(ctx context.Context, analytics entities.AccountAnalytics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).SaveAnalytics(ctx, analytics)
}

func (s *Store) DeleteAnalytics(ctx context.Context, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).DeleteAnalytics(ctx, actorID)
}

func (s *Store) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).GetProposal(ctx, proposalID)
}

func (s *Store) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).SaveProposal(ctx, proposal)
}

func (s *Store) GetBallot(ctx context.Context, proposalID uint64, voter string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).GetBallot(ctx, proposalID, voter)
}

func (s *Store) SaveBallot(ctx context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).SaveBallot(ctx, ballot)
}

func (s *Store) GetCollaboration(ctx context.Context, collaborationID uint64) (entities.Collaboration, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).GetCollaboration(ctx, collaborationID)
}

func (s *Store) SaveCollaboration(ctx context.Context, collaboration entities.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).SaveCollaboration(ctx, collaboration)
}

func (s *Store) GetCounters(ctx context.Context) (entities.SystemCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&txRepo{st: s.state}).GetCounters(ctx)
}

func (s *Store) SaveCounters(ctx context.Context, counters entities.SystemCounters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).SaveCounters(ctx, counters)
}

func (s *Store) AppendOutbox(ctx context.Context, message outbox.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txRepo{st: s.state}).AppendOutbox(ctx, message)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]outbox.Message, 0, limit)
	for _, row := range s.state.outbox {
		if row.Status != outbox.StatusPending {
			continue
		}
		pending = append(pending, row)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.outbox {
		if s.state.outbox[i].ID == messageID {
			s.state.outbox[i].Status = outbox.StatusPublished
			return nil
		}
	}
	return nil
}

// OutboxLen reports total outbox rows, a test convenience.
func (s *Store) OutboxLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.outbox)
}

// txRepo is the staging view handed to Atomically callbacks. It operates on
// an unshared state clone, so no locking is needed; nested Atomically calls
// join the surrounding staging.
type txRepo struct {
	st *state
}

func (t *txRepo) Atomically(_ context.Context, fn func(tx ports.Repository) error) error {
	return fn(t)
}

func (t *txRepo) GetAccount(_ context.Context, actorID string) (entities.Account, bool, error) {
	account, ok := t.st.accounts[strings.TrimSpace(actorID)]
	return account, ok, nil
}

func (t *txRepo) SaveAccount(_ context.Context, account entities.Account) error {
	t.st.accounts[strings.TrimSpace(account.ActorID)] = account
	return nil
}

func (t *txRepo) DeleteAccount(_ context.Context, actorID string) error {
	delete(t.st.accounts, strings.TrimSpace(actorID))
	return nil
}

func (t *txRepo) ListInactiveAccounts(_ context.Context, cutoff time.Time, limit int) ([]entities.Account, error) {
	matched := make([]entities.Account, 0)
	for _, account := range t.st.accounts {
		if account.LastActivity.Before(cutoff) {
			matched = append(matched, account)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ActorID < matched[j].ActorID })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (t *txRepo) GetAnalytics(_ context.Context, actorID string) (entities.AccountAnalytics, bool, error) {
	analytics, ok := t.st.analytics[strings.TrimSpace(actorID)]
	return analytics, ok, nil
}

func (t *txRepo) SaveAnalytics(_ context.Context, analytics entities.AccountAnalytics) error {
	t.st.analytics[strings.TrimSpace(analytics.ActorID)] = analytics
	return nil
}

func (t *txRepo) DeleteAnalytics(_ context.Context, actorID string) error {
	delete(t.st.analytics, strings.TrimSpace(actorID))
	return nil
}

func (t *txRepo) GetProposal(_ context.Context, proposalID uint64) (entities.Proposal, bool, error) {
	proposal, ok := t.st.proposals[proposalID]
	return proposal, ok, nil
}

func (t *txRepo) SaveProposal(_ context.Context, proposal entities.Proposal) error {
	t.st.proposals[proposal.ID] = proposal
	return nil
}

func (t *txRepo) GetBallot(_ context.Context, proposalID uint64, voter string) (entities.Ballot, bool, error) {
	ballot, ok := t.st.ballots[ballotKey{ProposalID: proposalID, Voter: strings.TrimSpace(voter)}]
	return ballot, ok, nil
}

func (t *txRepo) SaveBallot(_ context.Context, ballot entities.Ballot) error {
	t.st.ballots[ballotKey{ProposalID: ballot.ProposalID, Voter: strings.TrimSpace(ballot.Voter)}] = ballot
	return nil
}

func (t *txRepo) GetCollaboration(_ context.Context, collaborationID uint64) (entities.Collaboration, bool, error) {
	collaboration, ok := t.st.collaborations[collaborationID]
	return collaboration, ok, nil
}

func (t *txRepo) SaveCollaboration(_ context.Context, collaboration entities.Collaboration) error {
	t.st.collaborations[collaboration.ID] = collaboration
	return nil
}

func (t *txRepo) GetCounters(_ context.Context) (entities.SystemCounters, error) {
	return t.st.counters, nil
}

func (t *txRepo) SaveCounters(_ context.Context, counters entities.SystemCounters) error {
	t.st.counters = counters
	return nil
}

func (t *txRepo) AppendOutbox(_ context.Context, message outbox.Message) error {
	t.st.outbox = append(t.st.outbox, message)
	return nil
}
