package services

import (
	"crypto/rand"
	"math/big"
)

const (
	MinReward uint64 = 100
	MaxReward uint64 = 500
)

// RewardAllocator draws the per-participant reward amount at registration.
// The draw must not be predictable by the administrator or the participant
// before the registration that fixes it, so it reads the process CSPRNG;
// clock-derived values are not an acceptable source here.
type RewardAllocator struct{}

func (RewardAllocator) Allocate() (uint64, error) {
	span := big.NewInt(int64(MaxReward - MinReward + 1))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return MinReward + n.Uint64(), nil
}
