package ports

import (
	"context"
	"time"

	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
	"airvault/internal/shared/events"
)

// Ledger owns allocations, claims, and the tracked treasury balance.
// RecordClaim applies the claim row and the balance decrement as one write.
type Ledger interface {
	InitTreasury(ctx context.Context, state entities.TreasuryState) error
	GetTreasury(ctx context.Context) (entities.TreasuryState, error)
	SetTrackedBalance(ctx context.Context, balance uint64, updatedAt time.Time) error
	CreateAllocation(ctx context.Context, allocation entities.Allocation) error
	GetAllocation(ctx context.Context, participantID string) (entities.Allocation, bool, error)
	HasClaim(ctx context.Context, participantID string) (bool, error)
	RecordClaim(ctx context.Context, claim entities.ClaimRecord, newTrackedBalance uint64) error
}

// Custody is the external account/asset-custody collaborator.
type Custody interface {
	Transfer(ctx context.Context, fromAccountID string, toAccountID string, amount uint64) error
	BalanceOf(ctx context.Context, accountID string) (uint64, error)
	EnsureReceivable(ctx context.Context, accountID string) error
}

type Allocator interface {
	Allocate() (uint64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}
