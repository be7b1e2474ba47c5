package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
	domainerrors "airvault/contexts/distribution-core/airdrop-service/domain/errors"
	"airvault/contexts/distribution-core/airdrop-service/ports"
)

func TestStoreRejectsDuplicateAllocation(t *testing.T) {
	store := NewStore("admin", "treasury-pool")
	allocation := entities.Allocation{ParticipantID: "alice", Amount: 200, AllocatedAt: time.Now().UTC()}

	if err := store.CreateAllocation(context.Background(), allocation); err != nil {
		t.Fatalf("create allocation failed: %v", err)
	}
	err := store.CreateAllocation(context.Background(), entities.Allocation{ParticipantID: "alice", Amount: 300})
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected already registered error, got %v", err)
	}
	stored, _, _ := store.GetAllocation(context.Background(), "alice")
	if stored.Amount != 200 {
		t.Fatalf("duplicate create must not overwrite amount, got %d", stored.Amount)
	}
}

func TestStoreRecordClaimUpdatesBalanceAtomically(t *testing.T) {
	store := NewStore("admin", "treasury-pool")
	if err := store.CreateAllocation(context.Background(), entities.Allocation{ParticipantID: "alice", Amount: 200}); err != nil {
		t.Fatalf("create allocation failed: %v", err)
	}
	if err := store.SetTrackedBalance(context.Background(), 1000, time.Now().UTC()); err != nil {
		t.Fatalf("set tracked balance failed: %v", err)
	}

	claim := entities.ClaimRecord{ParticipantID: "alice", Amount: 200, ClaimedAt: time.Now().UTC()}
	if err := store.RecordClaim(context.Background(), claim, 800); err != nil {
		t.Fatalf("record claim failed: %v", err)
	}
	state, _ := store.GetTreasury(context.Background())
	if state.TrackedBalance != 800 {
		t.Fatalf("tracked balance mismatch: got %d, want 800", state.TrackedBalance)
	}
	if claimed, _ := store.HasClaim(context.Background(), "alice"); !claimed {
		t.Fatal("claim must be recorded")
	}

	err := store.RecordClaim(context.Background(), claim, 600)
	if !errors.Is(err, domainerrors.ErrAlreadyClaimed) {
		t.Fatalf("expected already claimed error, got %v", err)
	}
	state, _ = store.GetTreasury(context.Background())
	if state.TrackedBalance != 800 {
		t.Fatalf("second record claim must not change balance, got %d", state.TrackedBalance)
	}
}

func TestStoreRecordClaimRequiresAllocation(t *testing.T) {
	store := NewStore("admin", "treasury-pool")
	err := store.RecordClaim(context.Background(), entities.ClaimRecord{ParticipantID: "ghost", Amount: 100}, 0)
	if !errors.Is(err, domainerrors.ErrNotRegistered) {
		t.Fatalf("expected not registered error, got %v", err)
	}
}

func TestStoreOutboxLifecycle(t *testing.T) {
	store := NewStore("admin", "treasury-pool")
	payload, _ := json.Marshal(map[string]string{"participant_id": "alice"})
	envelope := ports.EventEnvelope{
		EventID:       "event-1",
		EventType:     "airdrop.participant.registered.v1",
		SourceService: "distribution-core/airdrop-service",
		OccurredAt:    time.Now().UTC(),
		PartitionKey:  "alice",
		SchemaVersion: 1,
		Payload:       payload,
	}
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
	// Re-append with the same event ID is a no-op.
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("idempotent append failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}

	if err := store.MarkOutboxPublished(context.Background(), pending[0].OutboxID, time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending messages after publish, got %d", len(pending))
	}
}

func TestStoreUninitializedTreasury(t *testing.T) {
	store := NewStore("", "")
	if _, err := store.GetTreasury(context.Background()); !errors.Is(err, domainerrors.ErrLedgerNotInitialized) {
		t.Fatalf("expected ledger not initialized error, got %v", err)
	}
	err := store.InitTreasury(context.Background(), entities.TreasuryState{
		OwnerAccountID:    "admin",
		TreasuryAccountID: "treasury-pool",
		UpdatedAt:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("init treasury failed: %v", err)
	}
	state, err := store.GetTreasury(context.Background())
	if err != nil {
		t.Fatalf("get treasury failed: %v", err)
	}
	if state.OwnerAccountID != "admin" {
		t.Fatalf("unexpected owner: %s", state.OwnerAccountID)
	}
}
