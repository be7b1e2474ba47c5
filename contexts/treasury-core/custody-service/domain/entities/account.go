package entities

import "time"

// Account is a custody account row. Receivable marks the account as
// provisioned to accept incoming asset transfers.
type Account struct {
	AccountID  string
	Balance    uint64
	Receivable bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
