package engine

import (
	"log/slog"
	"time"

	httpadapter "concord/contexts/governance/engine/adapters/http"
	"concord/contexts/governance/engine/adapters/memory"
	"concord/contexts/governance/engine/application/commands"
	"concord/contexts/governance/engine/application/queries"
	"concord/contexts/governance/engine/application/workers"
	"concord/contexts/governance/engine/ports"
)

// Module is the wired governance engine: one handler facade over the command,
// query and worker use cases.
type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Sweep   workers.DecaySweep
	Store   *memory.Store
}

type Dependencies struct {
	Repo             ports.Repository
	Outbox           ports.OutboxRepository
	Transfers        ports.TransferAgent
	Publisher        ports.EventPublisher
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	OwnerID          string
	ProposalDuration time.Duration
	Inactivity       time.Duration
	DecayAmount      int64
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	membership := commands.MembershipUseCase{
		Repo:      deps.Repo,
		Transfers: deps.Transfers,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		OwnerID:   deps.OwnerID,
		Logger:    deps.Logger,
	}
	treasury := commands.TreasuryUseCase{
		Repo:      deps.Repo,
		Transfers: deps.Transfers,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	proposals := commands.ProposalUseCase{
		Repo:             deps.Repo,
		Transfers:        deps.Transfers,
		Clock:            deps.Clock,
		IDGen:            deps.IDGen,
		ProposalDuration: deps.ProposalDuration,
		Logger:           deps.Logger,
	}
	votes := commands.VotingUseCase{
		Repo:   deps.Repo,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	collaborations := commands.CollaborationUseCase{
		Repo:   deps.Repo,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repo:   deps.Repo,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	sweep := workers.DecaySweep{
		Repo:        deps.Repo,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		OwnerID:     deps.OwnerID,
		Inactivity:  deps.Inactivity,
		DecayAmount: deps.DecayAmount,
		Logger:      deps.Logger,
	}
	relay := workers.OutboxRelay{
		Outbox:    deps.Outbox,
		Publisher: deps.Publisher,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Membership:     membership,
			Treasury:       treasury,
			Proposals:      proposals,
			Votes:          votes,
			Collaborations: collaborations,
			Queries:        queryUseCase,
			Decay:          sweep,
			Logger:         deps.Logger,
		},
		Relay: relay,
		Sweep: sweep,
	}
}

// NewInMemoryModule wires the engine against the in-memory store and transfer
// double. Used by tests and local dev.
func NewInMemoryModule(ownerID string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:             store,
		Outbox:           store,
		Transfers:        memory.NewTransferAgent(),
		Clock:            memory.SystemClock{},
		IDGen:            memory.UUIDGenerator{},
		OwnerID:          ownerID,
		ProposalDuration: commands.DefaultProposalDuration,
		Inactivity:       30 * 24 * time.Hour,
		DecayAmount:      1,
		Logger:           logger,
	})
	module.Store = store
	return module
}
