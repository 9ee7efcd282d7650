package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type vaultRepositoryImpl struct {
	store *store
}

// NewVaultRepositoryImpl returns a new in memory domain.VaultRepository
func NewVaultRepositoryImpl(s *store) domain.VaultRepository {
	return &vaultRepositoryImpl{s}
}

func (r *vaultRepositoryImpl) AddVault(
	ctx context.Context, vault domain.VaultAccount,
) error {
	tx, err := txFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := r.GetVault(ctx, vault.Address); err == nil {
		return domain.ErrVaultAlreadyInitialized
	}

	if tx != nil {
		tx.vaults[vault.Address] = vault
		return nil
	}

	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.vaults[vault.Address]; ok {
		return domain.ErrVaultAlreadyInitialized
	}
	r.store.vaults[vault.Address] = vault
	return nil
}

func (r *vaultRepositoryImpl) GetVault(
	ctx context.Context, addr domain.Address,
) (*domain.VaultAccount, error) {
	if tx := readTxFromContext(ctx); tx != nil {
		if vault, ok := tx.vaults[addr]; ok {
			return &vault, nil
		}
	}

	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	vault, ok := r.store.vaults[addr]
	if !ok {
		return nil, domain.ErrVaultNotFound
	}
	return &vault, nil
}

func (r *vaultRepositoryImpl) GetVaultByAuthority(
	ctx context.Context, authority domain.Address,
) (*domain.VaultAccount, error) {
	if tx := readTxFromContext(ctx); tx != nil {
		for _, vault := range tx.vaults {
			if vault.IsAuthority(authority) {
				v := vault
				return &v, nil
			}
		}
	}

	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	for _, vault := range r.store.vaults {
		if vault.IsAuthority(authority) {
			v := vault
			return &v, nil
		}
	}
	return nil, domain.ErrVaultNotFound
}

func (r *vaultRepositoryImpl) UpdateVault(
	ctx context.Context, addr domain.Address,
	updateFn func(v *domain.VaultAccount) (*domain.VaultAccount, error),
) error {
	tx, err := txFromContext(ctx)
	if err != nil {
		return err
	}

	if tx == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()

		vault, ok := r.store.vaults[addr]
		if !ok {
			return domain.ErrVaultNotFound
		}
		updatedVault, err := updateFn(&vault)
		if err != nil {
			return err
		}
		if updatedVault == nil {
			return ErrNullVault
		}
		r.store.vaults[addr] = *updatedVault
		return nil
	}

	vault, err := r.GetVault(ctx, addr)
	if err != nil {
		return err
	}
	updatedVault, err := updateFn(vault)
	if err != nil {
		return err
	}
	if updatedVault == nil {
		return ErrNullVault
	}
	tx.vaults[addr] = *updatedVault
	return nil
}
