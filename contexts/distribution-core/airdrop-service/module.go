package airdropservice

import (
	"log/slog"

	httpadapter "airvault/contexts/distribution-core/airdrop-service/adapters/http"
	"airvault/contexts/distribution-core/airdrop-service/adapters/memory"
	application "airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/application/commands"
	"airvault/contexts/distribution-core/airdrop-service/application/queries"
	"airvault/contexts/distribution-core/airdrop-service/domain/services"
	"airvault/contexts/distribution-core/airdrop-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Ledger            ports.Ledger
	Custody           ports.Custody
	Allocator         ports.Allocator
	Clock             ports.Clock
	IDGen             ports.IDGenerator
	Outbox            ports.OutboxWriter
	TreasuryAccountID string
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	allocator := deps.Allocator
	if allocator == nil {
		allocator = services.RewardAllocator{}
	}
	custodian := application.NewCustodian(deps.Custody, deps.TreasuryAccountID)
	commandUseCase := commands.New(commands.Config{
		Ledger:    deps.Ledger,
		Custody:   deps.Custody,
		Allocator: allocator,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Outbox:    deps.Outbox,
		Custodian: custodian,
		Logger:    deps.Logger,
	})
	queryUseCase := queries.UseCase{
		Ledger:  deps.Ledger,
		Custody: deps.Custody,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory ledger, used by
// tests and local runs without postgres.
func NewInMemoryModule(
	custody ports.Custody,
	ownerAccountID string,
	treasuryAccountID string,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(ownerAccountID, treasuryAccountID)
	module := NewModule(Dependencies{
		Ledger:            store,
		Custody:           custody,
		Clock:             store,
		IDGen:             store,
		Outbox:            store,
		TreasuryAccountID: treasuryAccountID,
		Logger:            logger,
	})
	module.Store = store
	return module
}
