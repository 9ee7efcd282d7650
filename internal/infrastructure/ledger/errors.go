package ledger

import "errors"

var (
	// ErrInsufficientFunds is returned when the source account holds less
	// lamports than the transferred amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrLamportOverflow is returned when crediting an account would overflow
	// its balance.
	ErrLamportOverflow = errors.New("lamports balance overflow")
	// ErrInsufficientFundsForRent is returned when an operation leaves an
	// account below its minimum reserve.
	ErrInsufficientFundsForRent = errors.New("insufficient funds for rent")
	// ErrAccountAlreadyInUse is returned when allocating an account that is
	// already funded or carries data.
	ErrAccountAlreadyInUse = errors.New("account already in use")
	// ErrFaucetDisabled ...
	ErrFaucetDisabled = errors.New("faucet is disabled")
	// ErrAirdropLimitExceeded ...
	ErrAirdropLimitExceeded = errors.New("airdrop amount exceeds faucet limit")
	// ErrInvalidSpace ...
	ErrInvalidSpace = errors.New("account space must be greater than zero")
)
