package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/domain/entities"
	domainerrors "airvault/contexts/distribution-core/airdrop-service/domain/errors"
	"airvault/contexts/distribution-core/airdrop-service/ports"
)

type RegisterCommand struct {
	CallerAccountID string
	ParticipantID   string
}

type FundCommand struct {
	CallerAccountID string
	Amount          uint64
}

type ClaimCommand struct {
	CallerAccountID string
}

type Config struct {
	Ledger    ports.Ledger
	Custody   ports.Custody
	Allocator ports.Allocator
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Outbox    ports.OutboxWriter
	Custodian *application.Custodian
	Logger    *slog.Logger
}

// UseCase serializes register/fund/claim: one in-flight mutating operation
// per ledger instance. The custodian is unexported so no caller outside the
// use case can move treasury funds.
type UseCase struct {
	ledger    ports.Ledger
	custody   ports.Custody
	allocator ports.Allocator
	clock     ports.Clock
	idGen     ports.IDGenerator
	outbox    ports.OutboxWriter
	custodian *application.Custodian
	logger    *slog.Logger
	mu        *sync.Mutex
}

func New(cfg Config) UseCase {
	return UseCase{
		ledger:    cfg.Ledger,
		custody:   cfg.Custody,
		allocator: cfg.Allocator,
		clock:     cfg.Clock,
		idGen:     cfg.IDGen,
		outbox:    cfg.Outbox,
		custodian: cfg.Custodian,
		logger:    cfg.Logger,
		mu:        &sync.Mutex{},
	}
}

// Register allocates a randomized reward for a new participant. Only the
// administrator may register, and an existing allocation is never
// overwritten.
func (uc UseCase) Register(ctx context.Context, cmd RegisterCommand) (entities.Allocation, error) {
	logger := application.ResolveLogger(uc.logger)
	callerID := strings.TrimSpace(cmd.CallerAccountID)
	participantID := strings.TrimSpace(cmd.ParticipantID)
	if callerID == "" || participantID == "" {
		logger.Warn("airdrop register invalid input",
			"event", "airdrop_register_invalid_input",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"caller_account_id", callerID,
			"participant_id", participantID,
		)
		return entities.Allocation{}, domainerrors.ErrInvalidAirdropInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	state, err := uc.ledger.GetTreasury(ctx)
	if err != nil {
		return entities.Allocation{}, err
	}
	if callerID != state.OwnerAccountID {
		logger.Warn("airdrop register unauthorized",
			"event", "airdrop_register_unauthorized",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"caller_account_id", callerID,
			"participant_id", participantID,
		)
		return entities.Allocation{}, domainerrors.ErrUnauthorized
	}
	if _, exists, err := uc.ledger.GetAllocation(ctx, participantID); err != nil {
		return entities.Allocation{}, err
	} else if exists {
		logger.Warn("airdrop register duplicate participant",
			"event", "airdrop_register_duplicate_participant",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", participantID,
		)
		return entities.Allocation{}, domainerrors.ErrAlreadyRegistered
	}

	amount, err := uc.allocator.Allocate()
	if err != nil {
		logger.Error("airdrop register allocation draw failed",
			"event", "airdrop_register_allocation_draw_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", participantID,
			"error", err.Error(),
		)
		return entities.Allocation{}, err
	}

	allocation := entities.Allocation{
		ParticipantID: participantID,
		Amount:        amount,
		AllocatedAt:   uc.now(),
	}
	if err := uc.ledger.CreateAllocation(ctx, allocation); err != nil {
		logger.Error("airdrop register create allocation failed",
			"event", "airdrop_register_create_allocation_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", participantID,
			"error", err.Error(),
		)
		return entities.Allocation{}, err
	}
	if err := uc.appendOutbox(ctx, application.EventTypeParticipantRegistered, participantID,
		application.ParticipantRegisteredPayload{ParticipantID: participantID}); err != nil {
		return entities.Allocation{}, err
	}
	logger.Info("airdrop participant registered",
		"event", "airdrop_participant_registered",
		"module", "distribution-core/airdrop-service",
		"layer", "application",
		"participant_id", participantID,
		"amount", amount,
	)
	return allocation, nil
}

// Fund moves amount from the administrator's account into the pooled
// treasury and increments the tracked balance. A failed custody transfer
// leaves the tracked balance unchanged.
func (uc UseCase) Fund(ctx context.Context, cmd FundCommand) (entities.TreasuryState, error) {
	logger := application.ResolveLogger(uc.logger)
	callerID := strings.TrimSpace(cmd.CallerAccountID)
	if callerID == "" || cmd.Amount == 0 {
		logger.Warn("airdrop fund invalid input",
			"event", "airdrop_fund_invalid_input",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"caller_account_id", callerID,
			"amount", cmd.Amount,
		)
		return entities.TreasuryState{}, domainerrors.ErrInvalidAirdropInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	state, err := uc.ledger.GetTreasury(ctx)
	if err != nil {
		return entities.TreasuryState{}, err
	}
	if callerID != state.OwnerAccountID {
		logger.Warn("airdrop fund unauthorized",
			"event", "airdrop_fund_unauthorized",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"caller_account_id", callerID,
		)
		return entities.TreasuryState{}, domainerrors.ErrUnauthorized
	}

	if err := uc.custody.Transfer(ctx, callerID, state.TreasuryAccountID, cmd.Amount); err != nil {
		logger.Warn("airdrop fund custody transfer rejected",
			"event", "airdrop_fund_custody_transfer_rejected",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"caller_account_id", callerID,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.TreasuryState{}, domainerrors.ErrTransferFailed
	}

	now := uc.now()
	state.TrackedBalance += cmd.Amount
	state.UpdatedAt = now
	if err := uc.ledger.SetTrackedBalance(ctx, state.TrackedBalance, now); err != nil {
		logger.Error("airdrop fund bookkeeping failed after transfer",
			"event", "airdrop_fund_bookkeeping_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.TreasuryState{}, err
	}
	if err := uc.appendOutbox(ctx, application.EventTypeTreasuryFunded, state.TreasuryAccountID,
		application.TreasuryFundedPayload{Amount: cmd.Amount, TrackedBalance: state.TrackedBalance}); err != nil {
		return entities.TreasuryState{}, err
	}
	logger.Info("airdrop treasury funded",
		"event", "airdrop_treasury_funded",
		"module", "distribution-core/airdrop-service",
		"layer", "application",
		"amount", cmd.Amount,
		"tracked_balance", state.TrackedBalance,
	)
	return state, nil
}

// Claim pays the caller's allocation out of the treasury exactly once.
// Preconditions run in order and abort with no state change; the ledger
// write happens strictly after the custody transfer succeeds, with no
// fallible step in between.
func (uc UseCase) Claim(ctx context.Context, cmd ClaimCommand) (entities.ClaimRecord, error) {
	logger := application.ResolveLogger(uc.logger)
	callerID := strings.TrimSpace(cmd.CallerAccountID)
	if callerID == "" {
		return entities.ClaimRecord{}, domainerrors.ErrInvalidAirdropInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	allocation, exists, err := uc.ledger.GetAllocation(ctx, callerID)
	if err != nil {
		return entities.ClaimRecord{}, err
	}
	if !exists {
		logger.Warn("airdrop claim participant not registered",
			"event", "airdrop_claim_not_registered",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", callerID,
		)
		return entities.ClaimRecord{}, domainerrors.ErrNotRegistered
	}
	claimed, err := uc.ledger.HasClaim(ctx, callerID)
	if err != nil {
		return entities.ClaimRecord{}, err
	}
	if claimed {
		logger.Warn("airdrop claim already claimed",
			"event", "airdrop_claim_already_claimed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", callerID,
		)
		return entities.ClaimRecord{}, domainerrors.ErrAlreadyClaimed
	}
	state, err := uc.ledger.GetTreasury(ctx)
	if err != nil {
		return entities.ClaimRecord{}, err
	}
	if state.TrackedBalance < allocation.Amount {
		logger.Warn("airdrop claim treasury underfunded",
			"event", "airdrop_claim_treasury_underfunded",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", callerID,
			"amount", allocation.Amount,
			"tracked_balance", state.TrackedBalance,
		)
		return entities.ClaimRecord{}, domainerrors.ErrInsufficientFunds
	}

	if err := uc.custody.EnsureReceivable(ctx, callerID); err != nil {
		logger.Warn("airdrop claim ensure receivable failed",
			"event", "airdrop_claim_ensure_receivable_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", callerID,
			"error", err.Error(),
		)
		return entities.ClaimRecord{}, domainerrors.ErrTransferFailed
	}
	if err := uc.custodian.TransferOut(ctx, callerID, allocation.Amount); err != nil {
		logger.Warn("airdrop claim payout transfer rejected",
			"event", "airdrop_claim_payout_transfer_rejected",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", callerID,
			"amount", allocation.Amount,
			"error", err.Error(),
		)
		return entities.ClaimRecord{}, domainerrors.ErrTransferFailed
	}

	claim := entities.ClaimRecord{
		ParticipantID: callerID,
		Amount:        allocation.Amount,
		ClaimedAt:     uc.now(),
	}
	if err := uc.ledger.RecordClaim(ctx, claim, state.TrackedBalance-allocation.Amount); err != nil {
		// Payout already left the treasury; this is the integrity violation
		// the design exists to prevent, so it is surfaced at error level.
		logger.Error("airdrop claim bookkeeping failed after payout",
			"event", "airdrop_claim_bookkeeping_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", callerID,
			"amount", allocation.Amount,
			"error", err.Error(),
		)
		return entities.ClaimRecord{}, err
	}
	if err := uc.appendOutbox(ctx, application.EventTypeRewardClaimed, callerID,
		application.RewardClaimedPayload{ParticipantID: callerID, Amount: allocation.Amount}); err != nil {
		return entities.ClaimRecord{}, err
	}
	logger.Info("airdrop reward claimed",
		"event", "airdrop_reward_claimed",
		"module", "distribution-core/airdrop-service",
		"layer", "application",
		"participant_id", callerID,
		"amount", allocation.Amount,
		"tracked_balance", state.TrackedBalance-allocation.Amount,
	)
	return claim, nil
}

func (uc UseCase) appendOutbox(ctx context.Context, eventType string, partitionKey string, payload any) error {
	if uc.outbox == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	eventID, err := uc.idGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: application.SourceService,
		OccurredAt:    uc.now(),
		PartitionKey:  partitionKey,
		SchemaVersion: 1,
		Payload:       raw,
	})
}

func (uc UseCase) now() time.Time {
	if uc.clock != nil {
		return uc.clock.Now().UTC()
	}
	return time.Now().UTC()
}
