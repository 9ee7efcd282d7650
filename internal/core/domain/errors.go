package domain

import "errors"

var (
	// ErrVaultLocked is returned when a transfer is attempted on a locked vault.
	ErrVaultLocked = errors.New("vault is locked")
	// ErrInsufficientBalance is returned when the source account cannot cover
	// the amount on top of its minimum reserve.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrArithmeticOverflow is returned when amount plus reserve does not fit
	// the balance range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrAddressMismatch is returned when the supplied vault address does not
	// match the derivation from its authority and bump.
	ErrAddressMismatch = errors.New("vault address does not match derivation")
	// ErrUnauthorized is returned when the caller is not the vault authority.
	ErrUnauthorized = errors.New("caller is not the vault authority")
	// ErrTransferFailed is returned when the ledger rejects a balance mutation.
	ErrTransferFailed = errors.New("ledger transfer failed")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrVaultNotFound ...
	ErrVaultNotFound = errors.New("vault not found")
	// ErrVaultAlreadyInitialized ...
	ErrVaultAlreadyInitialized = errors.New("vault is already initialized")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidSeeds is returned when seeds produce an address on the ed25519
	// curve or exceed the derivation limits.
	ErrInvalidSeeds = errors.New("invalid seeds, address must fall off the curve")
	// ErrBumpNotFound is returned when no bump makes the derivation valid.
	ErrBumpNotFound = errors.New("unable to find a viable bump seed")
	// ErrMissingProgramID ...
	ErrMissingProgramID = errors.New("missing program id")
	// ErrInvalidAccountData ...
	ErrInvalidAccountData = errors.New("invalid account data")
	// ErrNullRecord ...
	ErrNullRecord = errors.New("audit record must not be null")
	// ErrUnknownEventType ...
	ErrUnknownEventType = errors.New("unknown event type")
)
