package httptransport

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   uint64 `json:"balance"`
}

type CreditRequest struct {
	Amount uint64 `json:"amount"`
}

type CreditResponse struct {
	AccountID string `json:"account_id"`
	Balance   uint64 `json:"balance"`
}
