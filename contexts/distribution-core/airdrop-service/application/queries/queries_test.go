package queries

import (
	"context"
	"testing"
	"time"

	"airvault/contexts/distribution-core/airdrop-service/adapters/memory"
	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
)

type stubCustody struct {
	balances map[string]uint64
}

func (c stubCustody) Transfer(_ context.Context, from string, to string, amount uint64) error {
	c.balances[from] -= amount
	c.balances[to] += amount
	return nil
}

func (c stubCustody) BalanceOf(_ context.Context, account string) (uint64, error) {
	return c.balances[account], nil
}

func (c stubCustody) EnsureReceivable(_ context.Context, _ string) error {
	return nil
}

func newQueryFixture(t *testing.T) (UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore("admin", "treasury-pool")
	custody := stubCustody{balances: map[string]uint64{"treasury-pool": 700}}
	if err := store.CreateAllocation(context.Background(), entities.Allocation{
		ParticipantID: "alice",
		Amount:        300,
		AllocatedAt:   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed allocation failed: %v", err)
	}
	if err := store.SetTrackedBalance(context.Background(), 700, time.Now().UTC()); err != nil {
		t.Fatalf("seed balance failed: %v", err)
	}
	return UseCase{Ledger: store, Custody: custody}, store
}

func TestQueriesObserveRegistrationAndClaims(t *testing.T) {
	uc, store := newQueryFixture(t)
	ctx := context.Background()

	registered, err := uc.IsRegistered(ctx, "alice")
	if err != nil || !registered {
		t.Fatalf("expected alice registered, got %v %v", registered, err)
	}
	if registered, _ := uc.IsRegistered(ctx, "bob"); registered {
		t.Fatal("bob must not be registered")
	}

	amount, err := uc.AllocatedAmount(ctx, "alice")
	if err != nil || amount != 300 {
		t.Fatalf("allocated amount: got %d %v, want 300", amount, err)
	}
	if amount, _ := uc.AllocatedAmount(ctx, "bob"); amount != 0 {
		t.Fatalf("unregistered allocated amount must be 0, got %d", amount)
	}

	if claimed, _ := uc.HasClaimed(ctx, "alice"); claimed {
		t.Fatal("alice must not have claimed yet")
	}
	if err := store.RecordClaim(ctx, entities.ClaimRecord{
		ParticipantID: "alice",
		Amount:        300,
		ClaimedAt:     time.Now().UTC(),
	}, 400); err != nil {
		t.Fatalf("record claim failed: %v", err)
	}
	if claimed, _ := uc.HasClaimed(ctx, "alice"); !claimed {
		t.Fatal("alice must be marked claimed")
	}
}

func TestQueriesReportTreasuryBalances(t *testing.T) {
	uc, _ := newQueryFixture(t)
	ctx := context.Background()

	tracked, err := uc.TrackedBalance(ctx)
	if err != nil || tracked != 700 {
		t.Fatalf("tracked balance: got %d %v, want 700", tracked, err)
	}
	actual, err := uc.ActualTreasuryBalance(ctx)
	if err != nil || actual != 700 {
		t.Fatalf("actual balance: got %d %v, want 700", actual, err)
	}
	balances, err := uc.TreasuryBalances(ctx)
	if err != nil {
		t.Fatalf("treasury balances failed: %v", err)
	}
	if balances.TrackedBalance != balances.ActualBalance {
		t.Fatalf("tracked %d diverged from actual %d", balances.TrackedBalance, balances.ActualBalance)
	}
}
