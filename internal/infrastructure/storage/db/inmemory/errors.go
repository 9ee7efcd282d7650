package inmemory

import "errors"

var (
	// ErrReadOnlyTx is returned when writing within a read-only transaction.
	ErrReadOnlyTx = errors.New("cannot write within a read-only transaction")
	// ErrNullAccount ...
	ErrNullAccount = errors.New("account must not be null")
	// ErrNullVault ...
	ErrNullVault = errors.New("vault must not be null")
)
