package application

import (
	"context"
	"errors"
	"testing"

	"airvault/contexts/treasury-core/custody-service/adapters/memory"
	"airvault/contexts/treasury-core/custody-service/domain/entities"
	domainerrors "airvault/contexts/treasury-core/custody-service/domain/errors"
)

func newTestService(seed []entities.Account) Service {
	store := memory.NewStore(seed)
	return Service{Accounts: store, Clock: store}
}

func TestTransferMovesFunds(t *testing.T) {
	service := newTestService([]entities.Account{
		{AccountID: "admin", Balance: 1000},
		{AccountID: "treasury-pool"},
	})

	if err := service.Transfer(context.Background(), "admin", "treasury-pool", 400); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	from, _ := service.BalanceOf(context.Background(), "admin")
	to, _ := service.BalanceOf(context.Background(), "treasury-pool")
	if from != 600 || to != 400 {
		t.Fatalf("balances mismatch: from=%d to=%d", from, to)
	}
}

func TestTransferRejectsOverdraw(t *testing.T) {
	service := newTestService([]entities.Account{
		{AccountID: "admin", Balance: 100},
		{AccountID: "treasury-pool"},
	})

	err := service.Transfer(context.Background(), "admin", "treasury-pool", 101)
	if !errors.Is(err, domainerrors.ErrInsufficientAccountFunds) {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}
	from, _ := service.BalanceOf(context.Background(), "admin")
	to, _ := service.BalanceOf(context.Background(), "treasury-pool")
	if from != 100 || to != 0 {
		t.Fatalf("failed transfer must not move funds: from=%d to=%d", from, to)
	}
}

func TestTransferValidatesInput(t *testing.T) {
	service := newTestService([]entities.Account{{AccountID: "admin", Balance: 100}})

	if err := service.Transfer(context.Background(), "admin", "admin", 10); !errors.Is(err, domainerrors.ErrInvalidCustodyInput) {
		t.Fatalf("expected invalid input for self transfer, got %v", err)
	}
	if err := service.Transfer(context.Background(), "admin", "other", 0); !errors.Is(err, domainerrors.ErrInvalidCustodyInput) {
		t.Fatalf("expected invalid input for zero amount, got %v", err)
	}
}

func TestBalanceOfUnknownAccountIsZero(t *testing.T) {
	service := newTestService(nil)
	balance, err := service.BalanceOf(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("balance of failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}
}

func TestEnsureReceivableIsIdempotent(t *testing.T) {
	service := newTestService(nil)
	for i := 0; i < 2; i++ {
		if err := service.EnsureReceivable(context.Background(), "alice"); err != nil {
			t.Fatalf("ensure receivable failed on attempt %d: %v", i+1, err)
		}
	}
	balance, _ := service.BalanceOf(context.Background(), "alice")
	if balance != 0 {
		t.Fatalf("provisioning must not create funds, got %d", balance)
	}
}

func TestCreditProvisionsAndAddsFunds(t *testing.T) {
	service := newTestService(nil)
	account, err := service.Credit(context.Background(), "admin", 5000)
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if account.Balance != 5000 {
		t.Fatalf("unexpected balance after credit: %d", account.Balance)
	}
	account, err = service.Credit(context.Background(), "admin", 1000)
	if err != nil {
		t.Fatalf("second credit failed: %v", err)
	}
	if account.Balance != 6000 {
		t.Fatalf("unexpected balance after second credit: %d", account.Balance)
	}
}
