package ports

import (
	"context"
	"time"

	"airvault/contexts/treasury-core/custody-service/domain/entities"
)

// AccountStore persists custody accounts. TransferFunds applies both legs of
// a transfer as one atomic write.
type AccountStore interface {
	EnsureAccount(ctx context.Context, accountID string, now time.Time) error
	GetAccount(ctx context.Context, accountID string) (entities.Account, bool, error)
	CreditAccount(ctx context.Context, accountID string, amount uint64, now time.Time) (entities.Account, error)
	TransferFunds(ctx context.Context, fromAccountID string, toAccountID string, amount uint64, now time.Time) error
}

type Clock interface {
	Now() time.Time
}
