package ports

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

// Ledger is the external system of record for balances. Every call made with
// the ctx of a running instruction takes part of its transaction.
type Ledger interface {
	// Balance returns the authoritative amount of lamports held at addr.
	Balance(ctx context.Context, addr domain.Address) (uint64, error)
	// MinimumReserve returns the balance floor of the account at addr.
	MinimumReserve(ctx context.Context, addr domain.Address) (uint64, error)
	// Transfer moves amount lamports from one account to another. Both sides
	// change or none does.
	Transfer(ctx context.Context, from, to domain.Address, amount uint64) error
	// CreateAccount allocates space bytes for the unused account at addr and
	// funds it with lamports taken from payer.
	CreateAccount(
		ctx context.Context, payer, addr domain.Address, lamports, space uint64,
	) error
	// Airdrop mints amount lamports into the account at addr.
	Airdrop(ctx context.Context, addr domain.Address, amount uint64) error
	// Rent returns the reserve parameters in use.
	Rent() domain.Rent
}

// Executor runs instructions on behalf of the ledger environment. An
// instruction is executed as a single indivisible unit and is serialized
// against any other instruction referencing one of the same accounts.
type Executor interface {
	Execute(
		ctx context.Context, accounts []domain.Address,
		instruction func(ctx context.Context) error,
	) error
}
