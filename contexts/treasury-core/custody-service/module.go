package custodyservice

import (
	"log/slog"

	httpadapter "airvault/contexts/treasury-core/custody-service/adapters/http"
	"airvault/contexts/treasury-core/custody-service/adapters/memory"
	"airvault/contexts/treasury-core/custody-service/application"
	"airvault/contexts/treasury-core/custody-service/domain/entities"
	"airvault/contexts/treasury-core/custody-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Accounts ports.AccountStore
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Accounts: deps.Accounts,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Account, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Accounts: store,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
