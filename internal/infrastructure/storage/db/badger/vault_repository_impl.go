package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// vaultRow persists the on-ledger layout of a vault along with its authority
// so that vaults can be looked up by owner.
type vaultRow struct {
	Address   string
	Authority string `badgerhold:"index"`
	Data      []byte
}

type vaultRepositoryImpl struct {
	store *badgerhold.Store
}

// NewVaultRepositoryImpl initialize a badger implementation of the
// domain.VaultRepository
func NewVaultRepositoryImpl(store *badgerhold.Store) domain.VaultRepository {
	return vaultRepositoryImpl{store}
}

func (r vaultRepositoryImpl) AddVault(
	ctx context.Context, vault domain.VaultAccount,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		row := toVaultRow(vault)
		if err := r.store.TxInsert(tx, row.Address, row); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrVaultAlreadyInitialized
			}
			return err
		}
		return nil
	})
}

func (r vaultRepositoryImpl) GetVault(
	ctx context.Context, addr domain.Address,
) (*domain.VaultAccount, error) {
	var vault *domain.VaultAccount
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		v, err := r.getVault(tx, addr)
		vault = v
		return err
	}); err != nil {
		return nil, err
	}
	return vault, nil
}

func (r vaultRepositoryImpl) GetVaultByAuthority(
	ctx context.Context, authority domain.Address,
) (*domain.VaultAccount, error) {
	var rows []vaultRow
	query := badgerhold.Where("Authority").Eq(authority.String())

	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &rows, query)
	}); err != nil {
		return nil, err
	}
	if len(rows) <= 0 {
		return nil, domain.ErrVaultNotFound
	}
	return fromVaultRow(rows[0])
}

func (r vaultRepositoryImpl) UpdateVault(
	ctx context.Context, addr domain.Address,
	updateFn func(v *domain.VaultAccount) (*domain.VaultAccount, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		vault, err := r.getVault(tx, addr)
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

		row := toVaultRow(*updatedVault)
		return r.store.TxUpdate(tx, row.Address, row)
	})
}

func (r vaultRepositoryImpl) getVault(
	tx *badger.Txn, addr domain.Address,
) (*domain.VaultAccount, error) {
	var row vaultRow
	if err := r.store.TxGet(tx, addr.String(), &row); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrVaultNotFound
		}
		return nil, err
	}
	return fromVaultRow(row)
}

func toVaultRow(vault domain.VaultAccount) vaultRow {
	return vaultRow{
		Address:   vault.Address.String(),
		Authority: vault.Authority.String(),
		Data:      vault.Serialize(),
	}
}

func fromVaultRow(row vaultRow) (*domain.VaultAccount, error) {
	addr, err := domain.ParseAddress(row.Address)
	if err != nil {
		return nil, err
	}
	return domain.DeserializeVaultAccount(addr, row.Data)
}
