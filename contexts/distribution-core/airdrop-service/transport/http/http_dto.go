package httptransport

type RegisterRequest struct {
	ParticipantID string `json:"participant_id"`
}

type RegisterResponse struct {
	ParticipantID string `json:"participant_id"`
	RegisteredAt  string `json:"registered_at"`
}

type FundRequest struct {
	Amount uint64 `json:"amount"`
}

type FundResponse struct {
	Amount         uint64 `json:"amount"`
	TrackedBalance uint64 `json:"tracked_balance"`
}

type ClaimResponse struct {
	ParticipantID string `json:"participant_id"`
	Amount        uint64 `json:"amount"`
	ClaimedAt     string `json:"claimed_at"`
}

type ParticipantStatusResponse struct {
	ParticipantID   string `json:"participant_id"`
	Registered      bool   `json:"registered"`
	Claimed         bool   `json:"claimed"`
	AllocatedAmount uint64 `json:"allocated_amount"`
}

type TreasuryResponse struct {
	TrackedBalance uint64 `json:"tracked_balance"`
	ActualBalance  uint64 `json:"actual_balance"`
}
