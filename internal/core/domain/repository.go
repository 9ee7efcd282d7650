package domain

import (
	"context"
	"time"
)

// AccountRepository is the abstraction for the ledger's store of balances.
type AccountRepository interface {
	// GetAccount returns the account at the given address. Unknown addresses
	// resolve to an empty account rather than an error.
	GetAccount(ctx context.Context, addr Address) (*Account, error)
	// UpdateAccount applies updateFn to the account at addr and persists the
	// result.
	UpdateAccount(
		ctx context.Context, addr Address,
		updateFn func(a *Account) (*Account, error),
	) error
}

// VaultRepository is the abstraction for any kind of database intended to
// persist vault states.
type VaultRepository interface {
	// AddVault stores a new vault. Fails with ErrVaultAlreadyInitialized if
	// one already exists at the same address.
	AddVault(ctx context.Context, vault VaultAccount) error
	// GetVault returns the vault at addr or ErrVaultNotFound.
	GetVault(ctx context.Context, addr Address) (*VaultAccount, error)
	// GetVaultByAuthority returns the vault bound to the given authority or
	// ErrVaultNotFound.
	GetVaultByAuthority(ctx context.Context, authority Address) (*VaultAccount, error)
	// UpdateVault applies updateFn to the vault at addr and persists the result.
	UpdateVault(
		ctx context.Context, addr Address,
		updateFn func(v *VaultAccount) (*VaultAccount, error),
	) error
}

// EventRepository is the append-only audit log.
type EventRepository interface {
	// AppendEvent assigns the next sequence number to the event and stores it.
	AppendEvent(ctx context.Context, event *Event) error
	// GetAllEvents returns events in sequence order.
	GetAllEvents(ctx context.Context, page *Page) ([]Event, error)
	// GetEventsForVault returns the events of a single vault in sequence order.
	GetEventsForVault(ctx context.Context, vault Address, page *Page) ([]Event, error)
}

// SignatureRepository keeps the signatures already used to authorize an
// instruction for as long as they could be accepted again.
type SignatureRepository interface {
	// AddSignature stores signature until expiresAt. It returns false if the
	// signature is already stored.
	AddSignature(
		ctx context.Context, signature []byte, expiresAt time.Time,
	) (bool, error)
}
