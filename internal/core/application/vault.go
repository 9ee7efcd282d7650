package application

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/application/vault"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

type VaultService interface {
	// Instructions
	InitializeVault(
		ctx context.Context, authority domain.Address,
	) (ports.VaultInfo, error)
	Deposit(
		ctx context.Context, payer, vault domain.Address, amount uint64,
	) error
	Withdraw(
		ctx context.Context, authority, vault domain.Address, amount uint64,
	) error
	SetVaultLock(
		ctx context.Context, authority, vault domain.Address, locked bool,
	) error
	Airdrop(ctx context.Context, addr domain.Address, amount uint64) error

	// Read models
	GetVault(ctx context.Context, vault domain.Address) (ports.VaultInfo, error)
	GetVaultByAuthority(
		ctx context.Context, authority domain.Address,
	) (ports.VaultInfo, error)
	GetAccount(ctx context.Context, addr domain.Address) (ports.AccountInfo, error)
	ListEvents(ctx context.Context, page *domain.Page) ([]domain.Event, error)
	ListEventsForVault(
		ctx context.Context, vault domain.Address, page *domain.Page,
	) ([]domain.Event, error)
}

func NewVaultService(
	resolver *domain.AddressResolver, ledger ports.Ledger,
	executor ports.Executor, repoManager ports.RepoManager,
	pubsubSvc PubSubService,
) (VaultService, error) {
	var publisher vault.Publisher
	if pubsubSvc != nil {
		publisher = pubsubSvc
	}
	return vault.NewService(resolver, ledger, executor, repoManager, publisher)
}
