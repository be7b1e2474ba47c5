package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
	domainerrors "airvault/contexts/distribution-core/airdrop-service/domain/errors"
	"airvault/contexts/distribution-core/airdrop-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	// Single ledger instance per deployment; the row key is fixed.
	primaryLedgerID = "primary"

	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) InitTreasury(ctx context.Context, state entities.TreasuryState) error {
	owner := strings.TrimSpace(state.OwnerAccountID)
	treasury := strings.TrimSpace(state.TreasuryAccountID)
	if owner == "" || treasury == "" {
		return domainerrors.ErrInvalidAirdropInput
	}
	row := treasuryStateModel{
		LedgerID:          primaryLedgerID,
		OwnerAccountID:    owner,
		TreasuryAccountID: treasury,
		TrackedBalance:    state.TrackedBalance,
		UpdatedAt:         state.UpdatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("airdrop_repo_init_treasury_failed", err,
			"owner_account_id", owner,
			"treasury_account_id", treasury,
		)
	}
	return nil
}

func (r *Repository) GetTreasury(ctx context.Context) (entities.TreasuryState, error) {
	var row treasuryStateModel
	err := r.db.WithContext(ctx).
		Where("ledger_id = ?", primaryLedgerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.TreasuryState{}, domainerrors.ErrLedgerNotInitialized
		}
		return entities.TreasuryState{}, r.logError("airdrop_repo_get_treasury_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) SetTrackedBalance(ctx context.Context, balance uint64, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&treasuryStateModel{}).
		Where("ledger_id = ?", primaryLedgerID).
		Updates(map[string]any{
			"tracked_balance": balance,
			"updated_at":      updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("airdrop_repo_set_tracked_balance_failed", result.Error,
			"tracked_balance", balance,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrLedgerNotInitialized
	}
	return nil
}

func (r *Repository) CreateAllocation(ctx context.Context, allocation entities.Allocation) error {
	participantID := strings.TrimSpace(allocation.ParticipantID)
	if participantID == "" {
		return domainerrors.ErrInvalidAirdropInput
	}
	row := allocationModel{
		ParticipantID: participantID,
		Amount:        allocation.Amount,
		AllocatedAt:   allocation.AllocatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logWarn("airdrop_repo_create_allocation_duplicate",
				"participant_id", participantID,
			)
			return domainerrors.ErrAlreadyRegistered
		}
		return r.logError("airdrop_repo_create_allocation_failed", err,
			"participant_id", participantID,
		)
	}
	return nil
}

func (r *Repository) GetAllocation(ctx context.Context, participantID string) (entities.Allocation, bool, error) {
	var row allocationModel
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", strings.TrimSpace(participantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Allocation{}, false, nil
		}
		return entities.Allocation{}, false, r.logError("airdrop_repo_get_allocation_failed", err,
			"participant_id", strings.TrimSpace(participantID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) HasClaim(ctx context.Context, participantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&claimModel{}).
		Where("participant_id = ?", strings.TrimSpace(participantID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("airdrop_repo_has_claim_failed", err,
			"participant_id", strings.TrimSpace(participantID),
		)
	}
	return count > 0, nil
}

// RecordClaim inserts the claim row and writes the new tracked balance inside
// one transaction; the claim table's primary key rejects a second claim.
func (r *Repository) RecordClaim(ctx context.Context, claim entities.ClaimRecord, newTrackedBalance uint64) error {
	participantID := strings.TrimSpace(claim.ParticipantID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := claimModel{
			ParticipantID: participantID,
			Amount:        claim.Amount,
			ClaimedAt:     claim.ClaimedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyClaimed
			}
			return err
		}
		result := tx.Model(&treasuryStateModel{}).
			Where("ledger_id = ?", primaryLedgerID).
			Updates(map[string]any{
				"tracked_balance": newTrackedBalance,
				"updated_at":      claim.ClaimedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrLedgerNotInitialized
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyClaimed) || errors.Is(err, domainerrors.ErrLedgerNotInitialized) {
			return err
		}
		return r.logError("airdrop_repo_record_claim_failed", err,
			"participant_id", participantID,
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	row := outboxModel{
		OutboxID:     outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("airdrop_repo_append_outbox_failed", err,
			"outbox_id", outboxID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("airdrop_repo_list_pending_outbox_failed", err)
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

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("airdrop_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("airdrop_repo_mark_outbox_published_not_found",
			"outbox_id", strings.TrimSpace(outboxID),
		)
		return domainerrors.ErrInvalidAirdropInput
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "distribution-core/airdrop-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("airdrop repository operation failed", fields...)
	return err
}

func (r *Repository) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "distribution-core/airdrop-service",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	r.logger.Warn("airdrop repository warning", fields...)
}

type treasuryStateModel struct {
	LedgerID          string    `gorm:"column:ledger_id;primaryKey"`
	OwnerAccountID    string    `gorm:"column:owner_account_id"`
	TreasuryAccountID string    `gorm:"column:treasury_account_id"`
	TrackedBalance    uint64    `gorm:"column:tracked_balance"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (treasuryStateModel) TableName() string {
	return "airdrop_treasury"
}

func (m treasuryStateModel) toEntity() entities.TreasuryState {
	return entities.TreasuryState{
		OwnerAccountID:    m.OwnerAccountID,
		TreasuryAccountID: m.TreasuryAccountID,
		TrackedBalance:    m.TrackedBalance,
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type allocationModel struct {
	ParticipantID string    `gorm:"column:participant_id;primaryKey"`
	Amount        uint64    `gorm:"column:amount"`
	AllocatedAt   time.Time `gorm:"column:allocated_at"`
}

func (allocationModel) TableName() string {
	return "airdrop_allocations"
}

func (m allocationModel) toEntity() entities.Allocation {
	return entities.Allocation{
		ParticipantID: m.ParticipantID,
		Amount:        m.Amount,
		AllocatedAt:   m.AllocatedAt.UTC(),
	}
}

type claimModel struct {
	ParticipantID string    `gorm:"column:participant_id;primaryKey"`
	Amount        uint64    `gorm:"column:amount"`
	ClaimedAt     time.Time `gorm:"column:claimed_at"`
}

func (claimModel) TableName() string {
	return "airdrop_claims"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "airdrop_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Ledger = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
