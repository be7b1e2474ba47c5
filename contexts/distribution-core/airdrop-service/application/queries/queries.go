package queries

import (
	"context"
	"log/slog"
	"strings"

	application "airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/ports"
)

// UseCase exposes the read-only observation surface. No query requires
// authorization and none mutates ledger state.
type UseCase struct {
	Ledger  ports.Ledger
	Custody ports.Custody
	Logger  *slog.Logger
}

type ParticipantStatus struct {
	ParticipantID   string
	Registered      bool
	Claimed         bool
	AllocatedAmount uint64
}

type TreasuryBalances struct {
	TrackedBalance uint64
	ActualBalance  uint64
}

func (uc UseCase) IsRegistered(ctx context.Context, participantID string) (bool, error) {
	_, exists, err := uc.Ledger.GetAllocation(ctx, strings.TrimSpace(participantID))
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (uc UseCase) HasClaimed(ctx context.Context, participantID string) (bool, error) {
	return uc.Ledger.HasClaim(ctx, strings.TrimSpace(participantID))
}

// AllocatedAmount returns 0 for unregistered participants; absence is not an
// error on the query surface.
func (uc UseCase) AllocatedAmount(ctx context.Context, participantID string) (uint64, error) {
	allocation, exists, err := uc.Ledger.GetAllocation(ctx, strings.TrimSpace(participantID))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return allocation.Amount, nil
}

func (uc UseCase) ParticipantStatus(ctx context.Context, participantID string) (ParticipantStatus, error) {
	logger := application.ResolveLogger(uc.Logger)
	normalizedID := strings.TrimSpace(participantID)
	allocation, exists, err := uc.Ledger.GetAllocation(ctx, normalizedID)
	if err != nil {
		logger.Warn("airdrop query participant status failed",
			"event", "airdrop_query_participant_status_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "application",
			"participant_id", normalizedID,
			"error", err.Error(),
		)
		return ParticipantStatus{}, err
	}
	status := ParticipantStatus{ParticipantID: normalizedID, Registered: exists}
	if !exists {
		return status, nil
	}
	status.AllocatedAmount = allocation.Amount
	status.Claimed, err = uc.Ledger.HasClaim(ctx, normalizedID)
	if err != nil {
		return ParticipantStatus{}, err
	}
	return status, nil
}

func (uc UseCase) TrackedBalance(ctx context.Context) (uint64, error) {
	state, err := uc.Ledger.GetTreasury(ctx)
	if err != nil {
		return 0, err
	}
	return state.TrackedBalance, nil
}

// ActualTreasuryBalance reads the live custody balance of the pooled
// account, used to reconcile the tracked mirror.
func (uc UseCase) ActualTreasuryBalance(ctx context.Context) (uint64, error) {
	state, err := uc.Ledger.GetTreasury(ctx)
	if err != nil {
		return 0, err
	}
	return uc.Custody.BalanceOf(ctx, state.TreasuryAccountID)
}

func (uc UseCase) TreasuryBalances(ctx context.Context) (TreasuryBalances, error) {
	state, err := uc.Ledger.GetTreasury(ctx)
	if err != nil {
		return TreasuryBalances{}, err
	}
	actual, err := uc.Custody.BalanceOf(ctx, state.TreasuryAccountID)
	if err != nil {
		return TreasuryBalances{}, err
	}
	return TreasuryBalances{TrackedBalance: state.TrackedBalance, ActualBalance: actual}, nil
}
