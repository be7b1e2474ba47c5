package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "airvault/contexts/distribution-core/airdrop-service/application"
	"airvault/contexts/distribution-core/airdrop-service/application/commands"
	"airvault/contexts/distribution-core/airdrop-service/application/queries"
	httptransport "airvault/contexts/distribution-core/airdrop-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterHandler(
	ctx context.Context,
	callerAccountID string,
	req httptransport.RegisterRequest,
) (httptransport.RegisterResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	allocation, err := h.Commands.Register(ctx, commands.RegisterCommand{
		CallerAccountID: callerAccountID,
		ParticipantID:   req.ParticipantID,
	})
	if err != nil {
		logger.Warn("airdrop http register failed",
			"event", "airdrop_http_register_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "adapter",
			"participant_id", strings.TrimSpace(req.ParticipantID),
			"error", err.Error(),
		)
		return httptransport.RegisterResponse{}, err
	}
	// The allocated amount is intentionally omitted from the response; it is
	// observable through the status query but never echoed to the registrar.
	return httptransport.RegisterResponse{
		ParticipantID: allocation.ParticipantID,
		RegisteredAt:  allocation.AllocatedAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) FundHandler(
	ctx context.Context,
	callerAccountID string,
	req httptransport.FundRequest,
) (httptransport.FundResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	state, err := h.Commands.Fund(ctx, commands.FundCommand{
		CallerAccountID: callerAccountID,
		Amount:          req.Amount,
	})
	if err != nil {
		logger.Warn("airdrop http fund failed",
			"event", "airdrop_http_fund_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "adapter",
			"amount", req.Amount,
			"error", err.Error(),
		)
		return httptransport.FundResponse{}, err
	}
	return httptransport.FundResponse{
		Amount:         req.Amount,
		TrackedBalance: state.TrackedBalance,
	}, nil
}

func (h Handler) ClaimHandler(ctx context.Context, callerAccountID string) (httptransport.ClaimResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	claim, err := h.Commands.Claim(ctx, commands.ClaimCommand{CallerAccountID: callerAccountID})
	if err != nil {
		logger.Warn("airdrop http claim failed",
			"event", "airdrop_http_claim_failed",
			"module", "distribution-core/airdrop-service",
			"layer", "adapter",
			"participant_id", strings.TrimSpace(callerAccountID),
			"error", err.Error(),
		)
		return httptransport.ClaimResponse{}, err
	}
	return httptransport.ClaimResponse{
		ParticipantID: claim.ParticipantID,
		Amount:        claim.Amount,
		ClaimedAt:     claim.ClaimedAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) ParticipantStatusHandler(
	ctx context.Context,
	participantID string,
) (httptransport.ParticipantStatusResponse, error) {
	status, err := h.Queries.ParticipantStatus(ctx, participantID)
	if err != nil {
		return httptransport.ParticipantStatusResponse{}, err
	}
	return httptransport.ParticipantStatusResponse{
		ParticipantID:   status.ParticipantID,
		Registered:      status.Registered,
		Claimed:         status.Claimed,
		AllocatedAmount: status.AllocatedAmount,
	}, nil
}

func (h Handler) TreasuryHandler(ctx context.Context) (httptransport.TreasuryResponse, error) {
	balances, err := h.Queries.TreasuryBalances(ctx)
	if err != nil {
		return httptransport.TreasuryResponse{}, err
	}
	return httptransport.TreasuryResponse{
		TrackedBalance: balances.TrackedBalance,
		ActualBalance:  balances.ActualBalance,
	}, nil
}
