package commands

import (
	"context"
	"errors"
	"testing"

	application "airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/adapters/memory"
	domainerrors "airvault/contexts/distribution-core/airdrop-service/domain/errors"
)

type fakeCustody struct {
	balances     map[string]uint64
	receivable   map[string]bool
	failTransfer bool
	failEnsure   bool
}

func newFakeCustody() *fakeCustody {
	return &fakeCustody{
		balances:   make(map[string]uint64),
		receivable: make(map[string]bool),
	}
}

func (c *fakeCustody) Transfer(_ context.Context, from string, to string, amount uint64) error {
	if c.failTransfer {
		return errors.New("custody unavailable")
	}
	if c.balances[from] < amount {
		return errors.New("source account underfunded")
	}
	c.balances[from] -= amount
	c.balances[to] += amount
	return nil
}

func (c *fakeCustody) BalanceOf(_ context.Context, account string) (uint64, error) {
	return c.balances[account], nil
}

func (c *fakeCustody) EnsureReceivable(_ context.Context, account string) error {
	if c.failEnsure {
		return errors.New("provisioning unavailable")
	}
	c.receivable[account] = true
	return nil
}

type fixedAllocator struct {
	amount uint64
}

func (a fixedAllocator) Allocate() (uint64, error) {
	return a.amount, nil
}

func newTestUseCase(custody *fakeCustody, amount uint64) (UseCase, *memory.Store) {
	store := memory.NewStore("admin", "treasury-pool")
	uc := New(Config{
		Ledger:    store,
		Custody:   custody,
		Allocator: fixedAllocator{amount: amount},
		Clock:     store,
		IDGen:     store,
		Outbox:    store,
		Custodian: application.NewCustodian(custody, "treasury-pool"),
	})
	return uc, store
}

func TestRegisterRequiresAdministrator(t *testing.T) {
	custody := newFakeCustody()
	uc, store := newTestUseCase(custody, 250)

	_, err := uc.Register(context.Background(), RegisterCommand{
		CallerAccountID: "mallory",
		ParticipantID:   "alice",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if _, exists, _ := store.GetAllocation(context.Background(), "alice"); exists {
		t.Fatal("allocation must not exist after rejected registration")
	}
}

func TestRegisterRejectsDuplicateParticipant(t *testing.T) {
	custody := newFakeCustody()
	uc, store := newTestUseCase(custody, 250)

	first, err := uc.Register(context.Background(), RegisterCommand{
		CallerAccountID: "admin",
		ParticipantID:   "alice",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = uc.Register(context.Background(), RegisterCommand{
		CallerAccountID: "admin",
		ParticipantID:   "alice",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected already registered error, got %v", err)
	}

	allocation, _, _ := store.GetAllocation(context.Background(), "alice")
	if allocation.Amount != first.Amount {
		t.Fatalf("re-registration must not overwrite allocation: got %d, want %d", allocation.Amount, first.Amount)
	}
}

func TestFundRequiresAdministrator(t *testing.T) {
	custody := newFakeCustody()
	custody.balances["mallory"] = 1000
	uc, store := newTestUseCase(custody, 250)

	_, err := uc.Fund(context.Background(), FundCommand{CallerAccountID: "mallory", Amount: 1000})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	state, _ := store.GetTreasury(context.Background())
	if state.TrackedBalance != 0 {
		t.Fatalf("tracked balance must be unchanged, got %d", state.TrackedBalance)
	}
}

func TestFundTransferFailureLeavesTrackedBalance(t *testing.T) {
	custody := newFakeCustody()
	custody.balances["admin"] = 10
	uc, store := newTestUseCase(custody, 250)

	_, err := uc.Fund(context.Background(), FundCommand{CallerAccountID: "admin", Amount: 1000})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected transfer failed error, got %v", err)
	}
	state, _ := store.GetTreasury(context.Background())
	if state.TrackedBalance != 0 {
		t.Fatalf("tracked balance must be unchanged after failed transfer, got %d", state.TrackedBalance)
	}
}

func TestClaimUnregisteredParticipant(t *testing.T) {
	custody := newFakeCustody()
	uc, _ := newTestUseCase(custody, 250)

	_, err := uc.Claim(context.Background(), ClaimCommand{CallerAccountID: "alice"})
	if !errors.Is(err, domainerrors.ErrNotRegistered) {
		t.Fatalf("expected not registered error, got %v", err)
	}
}

func TestClaimPaysAllocationExactlyOnce(t *testing.T) {
	custody := newFakeCustody()
	custody.balances["admin"] = 10000
	uc, store := newTestUseCase(custody, 250)

	if _, err := uc.Register(context.Background(), RegisterCommand{CallerAccountID: "admin", ParticipantID: "alice"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := uc.Fund(context.Background(), FundCommand{CallerAccountID: "admin", Amount: 10000}); err != nil {
		t.Fatalf("fund failed: %v", err)
	}

	claim, err := uc.Claim(context.Background(), ClaimCommand{CallerAccountID: "alice"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claim.Amount != 250 {
		t.Fatalf("unexpected claim amount: %d", claim.Amount)
	}
	if custody.balances["alice"] != 250 {
		t.Fatalf("participant balance mismatch: got %d, want 250", custody.balances["alice"])
	}

	state, _ := store.GetTreasury(context.Background())
	if state.TrackedBalance != 9750 {
		t.Fatalf("tracked balance mismatch: got %d, want 9750", state.TrackedBalance)
	}
	if custody.balances["treasury-pool"] != 9750 {
		t.Fatalf("actual treasury balance mismatch: got %d, want 9750", custody.balances["treasury-pool"])
	}

	_, err = uc.Claim(context.Background(), ClaimCommand{CallerAccountID: "alice"})
	if !errors.Is(err, domainerrors.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed error, got %v", err)
	}
	state, _ = store.GetTreasury(context.Background())
	if state.TrackedBalance != 9750 {
		t.Fatalf("tracked balance must change exactly once across both claims, got %d", state.TrackedBalance)
	}
}

func TestClaimRejectedWhenTreasuryUnderfunded(t *testing.T) {
	custody := newFakeCustody()
	custody.balances["admin"] = 50
	uc, store := newTestUseCase(custody, 100)

	if _, err := uc.Register(context.Background(), RegisterCommand{CallerAccountID: "admin", ParticipantID: "bob"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := uc.Fund(context.Background(), FundCommand{CallerAccountID: "admin", Amount: 50}); err != nil {
		t.Fatalf("fund failed: %v", err)
	}

	_, err := uc.Claim(context.Background(), ClaimCommand{CallerAccountID: "bob"})
	if !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}
	state, _ := store.GetTreasury(context.Background())
	if state.TrackedBalance != 50 {
		t.Fatalf("tracked balance must remain 50, got %d", state.TrackedBalance)
	}
	if claimed, _ := store.HasClaim(context.Background(), "bob"); claimed {
		t.Fatal("claim must not be recorded after rejection")
	}
}

func TestClaimPayoutFailureLeavesLedgerUnchanged(t *testing.T) {
	custody := newFakeCustody()
	custody.balances["admin"] = 1000
	uc, store := newTestUseCase(custody, 250)

	if _, err := uc.Register(context.Background(), RegisterCommand{CallerAccountID: "admin", ParticipantID: "alice"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := uc.Fund(context.Background(), FundCommand{CallerAccountID: "admin", Amount: 1000}); err != nil {
		t.Fatalf("fund failed: %v", err)
	}

	custody.failTransfer = true
	_, err := uc.Claim(context.Background(), ClaimCommand{CallerAccountID: "alice"})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected transfer failed error, got %v", err)
	}
	state, _ := store.GetTreasury(context.Background())
	if state.TrackedBalance != 1000 {
		t.Fatalf("tracked balance must be unchanged after failed payout, got %d", state.TrackedBalance)
	}
	if claimed, _ := store.HasClaim(context.Background(), "alice"); claimed {
		t.Fatal("claim must not be recorded after failed payout")
	}

	custody.failTransfer = false
	if _, err := uc.Claim(context.Background(), ClaimCommand{CallerAccountID: "alice"}); err != nil {
		t.Fatalf("retried claim failed: %v", err)
	}
}
