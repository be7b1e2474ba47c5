package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"airvault/contexts/treasury-core/custody-service/application"
	httptransport "airvault/contexts/treasury-core/custody-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) BalanceHandler(ctx context.Context, accountID string) (httptransport.BalanceResponse, error) {
	balance, err := h.Service.BalanceOf(ctx, accountID)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{
		AccountID: strings.TrimSpace(accountID),
		Balance:   balance,
	}, nil
}

func (h Handler) CreditHandler(
	ctx context.Context,
	accountID string,
	req httptransport.CreditRequest,
) (httptransport.CreditResponse, error) {
	account, err := h.Service.Credit(ctx, accountID, req.Amount)
	if err != nil {
		return httptransport.CreditResponse{}, err
	}
	return httptransport.CreditResponse{
		AccountID: account.AccountID,
		Balance:   account.Balance,
	}, nil
}
