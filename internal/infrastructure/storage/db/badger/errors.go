package dbbadger

import "errors"

var (
	// ErrTxConflict is returned when a transaction keeps conflicting with
	// concurrent ones after all retries.
	ErrTxConflict = errors.New("transaction conflict, retries exhausted")
	// ErrNullAccount ...
	ErrNullAccount = errors.New("account must not be null")
	// ErrNullVault ...
	ErrNullVault = errors.New("vault must not be null")
)
