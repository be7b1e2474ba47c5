package errors

import "errors"

var (
	ErrAccountNotFound          = errors.New("custody account not found")
	ErrInsufficientAccountFunds = errors.New("custody account balance is insufficient")
	ErrInvalidCustodyInput      = errors.New("invalid custody input")
)
