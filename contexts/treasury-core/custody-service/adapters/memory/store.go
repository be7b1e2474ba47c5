package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"airvault/contexts/treasury-core/custody-service/domain/entities"
	domainerrors "airvault/contexts/treasury-core/custody-service/domain/errors"
	"airvault/contexts/treasury-core/custody-service/ports"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]entities.Account
}

func NewStore(seed []entities.Account) *Store {
	accounts := make(map[string]entities.Account, len(seed))
	for _, account := range seed {
		accountID := strings.TrimSpace(account.AccountID)
		if accountID == "" {
			continue
		}
		account.AccountID = accountID
		accounts[accountID] = account
	}
	return &Store{accounts: accounts}
}

func (s *Store) EnsureAccount(_ context.Context, accountID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalizedID := strings.TrimSpace(accountID)
	if normalizedID == "" {
		return domainerrors.ErrInvalidCustodyInput
	}
	if account, exists := s.accounts[normalizedID]; exists {
		if !account.Receivable {
			account.Receivable = true
			account.UpdatedAt = now.UTC()
			s.accounts[normalizedID] = account
		}
		return nil
	}
	s.accounts[normalizedID] = entities.Account{
		AccountID:  normalizedID,
		Receivable: true,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID string) (entities.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[strings.TrimSpace(accountID)]
	return account, exists, nil
}

func (s *Store) CreditAccount(_ context.Context, accountID string, amount uint64, now time.Time) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[strings.TrimSpace(accountID)]
	if !exists {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	account.Balance += amount
	account.UpdatedAt = now.UTC()
	s.accounts[account.AccountID] = account
	return account, nil
}

// TransferFunds debits and credits under one lock so no reader observes a
// half-applied transfer.
func (s *Store) TransferFunds(_ context.Context, fromAccountID string, toAccountID string, amount uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, exists := s.accounts[strings.TrimSpace(fromAccountID)]
	if !exists {
		return domainerrors.ErrAccountNotFound
	}
	if from.Balance < amount {
		return domainerrors.ErrInsufficientAccountFunds
	}
	to, exists := s.accounts[strings.TrimSpace(toAccountID)]
	if !exists {
		return domainerrors.ErrAccountNotFound
	}

	from.Balance -= amount
	from.UpdatedAt = now.UTC()
	to.Balance += amount
	to.UpdatedAt = now.UTC()
	s.accounts[from.AccountID] = from
	s.accounts[to.AccountID] = to
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.AccountStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
