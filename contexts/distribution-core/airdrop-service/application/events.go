package application

const (
	SourceService = "distribution-core/airdrop-service"

	EventTypeParticipantRegistered = "airdrop.participant.registered.v1"
	EventTypeRewardClaimed         = "airdrop.reward.claimed.v1"
	EventTypeTreasuryFunded        = "airdrop.treasury.funded.v1"
)

type ParticipantRegisteredPayload struct {
	ParticipantID string `json:"participant_id"`
}

type RewardClaimedPayload struct {
	ParticipantID string `json:"participant_id"`
	Amount        uint64 `json:"amount"`
}

type TreasuryFundedPayload struct {
	Amount         uint64 `json:"amount"`
	TrackedBalance uint64 `json:"tracked_balance"`
}
