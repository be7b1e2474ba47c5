package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"airvault/contexts/treasury-core/custody-service/domain/entities"
	domainerrors "airvault/contexts/treasury-core/custody-service/domain/errors"
	"airvault/contexts/treasury-core/custody-service/ports"
)

// Service is the custody operation surface. Its Transfer/BalanceOf/
// EnsureReceivable signatures satisfy the distribution-core custody port.
type Service struct {
	Accounts ports.AccountStore
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (s Service) Transfer(ctx context.Context, fromAccountID string, toAccountID string, amount uint64) error {
	logger := resolveLogger(s.Logger)
	from := strings.TrimSpace(fromAccountID)
	to := strings.TrimSpace(toAccountID)
	if from == "" || to == "" || from == to || amount == 0 {
		logger.Warn("custody transfer invalid input",
			"event", "custody_transfer_invalid_input",
			"module", "treasury-core/custody-service",
			"layer", "application",
			"from_account_id", from,
			"to_account_id", to,
			"amount", amount,
		)
		return domainerrors.ErrInvalidCustodyInput
	}
	if err := s.Accounts.TransferFunds(ctx, from, to, amount, s.now()); err != nil {
		logger.Warn("custody transfer rejected",
			"event", "custody_transfer_rejected",
			"module", "treasury-core/custody-service",
			"layer", "application",
			"from_account_id", from,
			"to_account_id", to,
			"amount", amount,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("custody transfer applied",
		"event", "custody_transfer_applied",
		"module", "treasury-core/custody-service",
		"layer", "application",
		"from_account_id", from,
		"to_account_id", to,
		"amount", amount,
	)
	return nil
}

// BalanceOf returns 0 for unknown accounts; absence is not an error on the
// read surface.
func (s Service) BalanceOf(ctx context.Context, accountID string) (uint64, error) {
	account, exists, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(accountID))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return account.Balance, nil
}

// EnsureReceivable provisions a receiving account row if one does not exist.
// Idempotent.
func (s Service) EnsureReceivable(ctx context.Context, accountID string) error {
	normalizedID := strings.TrimSpace(accountID)
	if normalizedID == "" {
		return domainerrors.ErrInvalidCustodyInput
	}
	return s.Accounts.EnsureAccount(ctx, normalizedID, s.now())
}

// Credit seeds an account balance. Administrative bootstrapping lives here,
// outside the distribution ledger.
func (s Service) Credit(ctx context.Context, accountID string, amount uint64) (entities.Account, error) {
	logger := resolveLogger(s.Logger)
	normalizedID := strings.TrimSpace(accountID)
	if normalizedID == "" || amount == 0 {
		return entities.Account{}, domainerrors.ErrInvalidCustodyInput
	}
	now := s.now()
	if err := s.Accounts.EnsureAccount(ctx, normalizedID, now); err != nil {
		return entities.Account{}, err
	}
	account, err := s.Accounts.CreditAccount(ctx, normalizedID, amount, now)
	if err != nil {
		logger.Error("custody credit failed",
			"event", "custody_credit_failed",
			"module", "treasury-core/custody-service",
			"layer", "application",
			"account_id", normalizedID,
			"amount", amount,
			"error", err.Error(),
		)
		return entities.Account{}, err
	}
	logger.Info("custody account credited",
		"event", "custody_account_credited",
		"module", "treasury-core/custody-service",
		"layer", "application",
		"account_id", normalizedID,
		"amount", amount,
		"balance", account.Balance,
	)
	return account, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
