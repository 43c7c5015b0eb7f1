package catalogservice

import (
	"log/slog"

	httpadapter "eduvote/contexts/election-operations/catalog-service/adapters/http"
	"eduvote/contexts/election-operations/catalog-service/adapters/memory"
	"eduvote/contexts/election-operations/catalog-service/application/commands"
	"eduvote/contexts/election-operations/catalog-service/application/queries"
	"eduvote/contexts/election-operations/catalog-service/domain/entities"
	"eduvote/contexts/election-operations/catalog-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Catalog ports.ElectionRepository
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	adminUseCase := commands.AdminUseCase{
		Catalog: deps.Catalog,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Logger:  deps.Logger,
	}
	catalogUseCase := queries.CatalogUseCase{
		Catalog: deps.Catalog,
		Clock:   deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Admin:   adminUseCase,
			Catalog: catalogUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Election, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Catalog: store,
		Clock:   store,
		IDGen:   store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
