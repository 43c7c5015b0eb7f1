package votingengine

import (
	"log/slog"

	httpadapter "eduvote/contexts/election-operations/voting-engine/adapters/http"
	"eduvote/contexts/election-operations/voting-engine/adapters/memory"
	"eduvote/contexts/election-operations/voting-engine/application/commands"
	"eduvote/contexts/election-operations/voting-engine/application/queries"
	"eduvote/contexts/election-operations/voting-engine/application/workers"
	"eduvote/contexts/election-operations/voting-engine/ports"
	"eduvote/internal/platform/metrics"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Catalog      ports.ElectionCatalog
	Ballots      ports.BallotRepository
	Outbox       ports.OutboxRepository
	Publisher    ports.EventPublisher
	VotedHints   ports.VotedHintStore
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	ReceiptIDGen ports.ReceiptIDGenerator
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	castUseCase := commands.CastUseCase{
		Catalog:      deps.Catalog,
		Ballots:      deps.Ballots,
		VotedHints:   deps.VotedHints,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		ReceiptIDGen: deps.ReceiptIDGen,
		Logger:       deps.Logger,
	}
	receiptUseCase := queries.ReceiptUseCase{
		Ballots: deps.Ballots,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Cast:     castUseCase,
			Receipts: receiptUseCase,
			Metrics:  deps.Metrics,
			Logger:   deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory store. The voted
// hint cache is left unwired so the store's uniqueness check, like the
// database constraint in production, is the path exercised.
func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Catalog:      store,
		Ballots:      store,
		Outbox:       store,
		Publisher:    publisher,
		Clock:        store,
		IDGen:        store,
		ReceiptIDGen: store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
