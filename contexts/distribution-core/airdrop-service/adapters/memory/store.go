package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
	domainerrors "airvault/contexts/distribution-core/airdrop-service/domain/errors"
	"airvault/contexts/distribution-core/airdrop-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

// Store is the in-memory ledger used by tests and local runs.
type Store struct {
	mu sync.RWMutex

	treasury    entities.TreasuryState
	initialized bool
	allocations map[string]entities.Allocation
	claims      map[string]entities.ClaimRecord
	outbox      map[string]outboxRecord
}

func NewStore(ownerAccountID string, treasuryAccountID string) *Store {
	store := &Store{
		allocations: make(map[string]entities.Allocation),
		claims:      make(map[string]entities.ClaimRecord),
		outbox:      make(map[string]outboxRecord),
	}
	owner := strings.TrimSpace(ownerAccountID)
	treasury := strings.TrimSpace(treasuryAccountID)
	if owner != "" && treasury != "" {
		store.treasury = entities.TreasuryState{
			OwnerAccountID:    owner,
			TreasuryAccountID: treasury,
			UpdatedAt:         time.Now().UTC(),
		}
		store.initialized = true
	}
	return store
}

func (s *Store) InitTreasury(_ context.Context, state entities.TreasuryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if strings.TrimSpace(state.OwnerAccountID) == "" || strings.TrimSpace(state.TreasuryAccountID) == "" {
		return domainerrors.ErrInvalidAirdropInput
	}
	s.treasury = state
	s.initialized = true
	return nil
}

func (s *Store) GetTreasury(_ context.Context) (entities.TreasuryState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return entities.TreasuryState{}, domainerrors.ErrLedgerNotInitialized
	}
	return s.treasury, nil
}

func (s *Store) SetTrackedBalance(_ context.Context, balance uint64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return domainerrors.ErrLedgerNotInitialized
	}
	s.treasury.TrackedBalance = balance
	s.treasury.UpdatedAt = updatedAt.UTC()
	return nil
}

func (s *Store) CreateAllocation(_ context.Context, allocation entities.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participantID := strings.TrimSpace(allocation.ParticipantID)
	if participantID == "" {
		return domainerrors.ErrInvalidAirdropInput
	}
	if _, exists := s.allocations[participantID]; exists {
		return domainerrors.ErrAlreadyRegistered
	}
	allocation.ParticipantID = participantID
	s.allocations[participantID] = allocation
	return nil
}

func (s *Store) GetAllocation(_ context.Context, participantID string) (entities.Allocation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allocation, exists := s.allocations[strings.TrimSpace(participantID)]
	return allocation, exists, nil
}

func (s *Store) HasClaim(_ context.Context, participantID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.claims[strings.TrimSpace(participantID)]
	return exists, nil
}

// RecordClaim applies the claim row and the tracked-balance decrement as one
// locked write so a reader never observes one without the other.
func (s *Store) RecordClaim(_ context.Context, claim entities.ClaimRecord, newTrackedBalance uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participantID := strings.TrimSpace(claim.ParticipantID)
	if _, exists := s.allocations[participantID]; !exists {
		return domainerrors.ErrNotRegistered
	}
	if _, exists := s.claims[participantID]; exists {
		return domainerrors.ErrAlreadyClaimed
	}
	claim.ParticipantID = participantID
	s.claims[participantID] = claim
	s.treasury.TrackedBalance = newTrackedBalance
	s.treasury.UpdatedAt = claim.ClaimedAt.UTC()
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.outbox[strings.TrimSpace(outboxID)]
	if !exists {
		return domainerrors.ErrInvalidAirdropInput
	}
	timestamp := publishedAt.UTC()
	row.PublishedAt = &timestamp
	s.outbox[row.OutboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Ledger = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
