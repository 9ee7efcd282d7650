package vault

import "errors"

var (
	// ErrMissingResolver ...
	ErrMissingResolver = errors.New("missing address resolver")
	// ErrMissingLedger ...
	ErrMissingLedger = errors.New("missing ledger")
	// ErrMissingExecutor ...
	ErrMissingExecutor = errors.New("missing instruction executor")
	// ErrMissingRepoManager ...
	ErrMissingRepoManager = errors.New("missing repo manager")
)
