package errors

import "errors"

var (
	ErrUnauthorized         = errors.New("caller is not the airdrop administrator")
	ErrAlreadyRegistered    = errors.New("participant already has an allocation")
	ErrNotRegistered        = errors.New("participant has no allocation")
	ErrAlreadyClaimed       = errors.New("participant already claimed their reward")
	ErrInsufficientFunds    = errors.New("treasury tracked balance is below the claim amount")
	ErrTransferFailed       = errors.New("custody transfer failed")
	ErrInvalidAirdropInput  = errors.New("invalid airdrop input")
	ErrLedgerNotInitialized = errors.New("ledger treasury state is not initialized")
)
