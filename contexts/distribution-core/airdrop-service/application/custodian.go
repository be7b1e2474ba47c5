package application

import (
	"context"

	"airvault/contexts/distribution-core/airdrop-service/ports"
)

// Custodian authorizes transfers out of the pooled treasury account.
// It is constructed once at module initialization and held only by the
// command use case. The bound treasury account is not exposed through any
// accessor; the only operation is TransferOut.
type Custodian struct {
	custody           ports.Custody
	treasuryAccountID string
}

func NewCustodian(custody ports.Custody, treasuryAccountID string) *Custodian {
	return &Custodian{
		custody:           custody,
		treasuryAccountID: treasuryAccountID,
	}
}

func (c *Custodian) TransferOut(ctx context.Context, toAccountID string, amount uint64) error {
	return c.custody.Transfer(ctx, c.treasuryAccountID, toAccountID, amount)
}
