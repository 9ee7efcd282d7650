package ports

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

// RepoManager interface defines the methods for accounts, vaults, events and
// used signatures.
type RepoManager interface {
	AccountRepository() domain.AccountRepository
	VaultRepository() domain.VaultRepository
	EventRepository() domain.EventRepository
	SignatureRepository() domain.SignatureRepository

	// RunTransaction runs the handler within a single storage transaction.
	// Every read and write made through the repositories with the given ctx
	// is either committed together when handler returns no error or
	// discarded otherwise.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
