package ports

import (
	"context"
	"time"

	"concord/contexts/governance/engine/domain/entities"
	"concord/internal/shared/events"
	"concord/internal/shared/outbox"
)

// Repository is the keyed state of the engine: accounts, analytics,
// proposals, ballots, collaborations, the counters singleton and the outbox.
// Mutation sites follow read-record / build-new-record / write; adapters
// never merge fields in place.
type Repository interface {
	GetAccount(ctx context.Context, actorID string) (entities.Account, bool, error)
	SaveAccount(ctx context.Context, account entities.Account) error
	DeleteAccount(ctx context.Context, actorID string) error
	// ListInactiveAccounts returns up to limit accounts whose last activity
	// predates cutoff, ordered by actor ID. Used only by the decay sweep,
	// never inside a single operation's atomic scope.
	ListInactiveAccounts(ctx context.Context, cutoff time.Time, limit int) ([]entities.Account, error)

	GetAnalytics(ctx context.Context, actorID string) (entities.AccountAnalytics, bool, error)
	SaveAnalytics(ctx context.Context, analytics entities.AccountAnalytics) error
	DeleteAnalytics(ctx context.Context, actorID string) error

	GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, bool, error)
	SaveProposal(ctx context.Context, proposal entities.Proposal) error

	GetBallot(ctx context.Context, proposalID uint64, voter string) (entities.Ballot, bool, error)
	SaveBallot(ctx context.Context, ballot entities.Ballot) error

	GetCollaboration(ctx context.Context, collaborationID uint64) (entities.Collaboration, bool, error)
	SaveCollaboration(ctx context.Context, collaboration entities.Collaboration) error

	GetCounters(ctx context.Context) (entities.SystemCounters, error)
	SaveCounters(ctx context.Context, counters entities.SystemCounters) error

	AppendOutbox(ctx context.Context, message outbox.Message) error

	// Atomically runs fn against a transactional view of the repository.
	// Either every write staged by fn becomes visible or none does; a
	// non-nil error from fn discards the staging entirely.
	Atomically(ctx context.Context, fn func(tx Repository) error) error
}

// OutboxRepository is the relay-facing slice of the store.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, messageID string) error
}

// TransferAgent is the custodial asset-transfer primitive supplied by the
// execution environment. Draw pulls value from an actor into custody,
// Transfer pays value out of custody. Both are called as the final step
// inside an atomic scope so a failed transfer aborts the staged state.
type TransferAgent interface {
	Draw(ctx context.Context, from string, amount int64) error
	Transfer(ctx context.Context, to string, amount int64) error
}

// Clock is the environment-supplied logical clock. Expiry and inactivity
// behavior compare against it; nothing in the engine reads wall time
// directly.
type Clock interface {
	Now() time.Time
}

// IDGenerator mints event/outbox identifiers. Domain IDs for proposals and
// collaborations are sequential and come from the counters record instead.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventPublisher delivers envelopes to the event bus. Only the outbox relay
// talks to it; commands persist envelopes through the outbox.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
