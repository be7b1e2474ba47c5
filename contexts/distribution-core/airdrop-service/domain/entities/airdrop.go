package entities

import "time"

// Allocation is the randomized reward assigned to a participant at
// registration. One row per participant, never overwritten.
type Allocation struct {
	ParticipantID string
	Amount        uint64
	AllocatedAt   time.Time
}

// ClaimRecord marks a participant's one-time withdrawal of their allocation.
type ClaimRecord struct {
	ParticipantID string
	Amount        uint64
	ClaimedAt     time.Time
}

// TreasuryState is the ledger's view of the pooled treasury account.
// TrackedBalance mirrors the custody balance and is mutated only by fund
// (increment) and claim (decrement).
type TreasuryState struct {
	OwnerAccountID    string
	TreasuryAccountID string
	TrackedBalance    uint64
	UpdatedAt         time.Time
}
