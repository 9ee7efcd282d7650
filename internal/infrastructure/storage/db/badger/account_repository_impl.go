package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRow struct {
	Address  string
	Lamports uint64
	Space    uint64
}

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAccountRepositoryImpl initialize a badger implementation of the
// domain.AccountRepository
func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return accountRepositoryImpl{store}
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, addr domain.Address,
) (*domain.Account, error) {
	var account *domain.Account
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		a, err := r.getAccount(tx, addr)
		account = a
		return err
	}); err != nil {
		return nil, err
	}
	return account, nil
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context, addr domain.Address,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		account, err := r.getAccount(tx, addr)
		if err != nil {
			return err
		}

		updatedAccount, err := updateFn(account)
		if err != nil {
			return err
		}
		if updatedAccount == nil {
			return ErrNullAccount
		}

		row := accountRow{
			Address:  addr.String(),
			Lamports: updatedAccount.Lamports,
			Space:    updatedAccount.Space,
		}
		return r.store.TxUpsert(tx, row.Address, row)
	})
}

func (r accountRepositoryImpl) getAccount(
	tx *badger.Txn, addr domain.Address,
) (*domain.Account, error) {
	var row accountRow
	if err := r.store.TxGet(tx, addr.String(), &row); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.NewAccount(addr), nil
		}
		return nil, err
	}

	return &domain.Account{
		Address:  addr,
		Lamports: row.Lamports,
		Space:    row.Space,
	}, nil
}
