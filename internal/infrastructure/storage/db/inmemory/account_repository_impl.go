package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type accountRepositoryImpl struct {
	store *store
}

// NewAccountRepositoryImpl returns a new in memory domain.AccountRepository
func NewAccountRepositoryImpl(s *store) domain.AccountRepository {
	return &accountRepositoryImpl{s}
}

func (r *accountRepositoryImpl) GetAccount(
	ctx context.Context, addr domain.Address,
) (*domain.Account, error) {
	if tx := readTxFromContext(ctx); tx != nil {
		if account, ok := tx.accounts[addr]; ok {
			return &account, nil
		}
	}

	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.getAccount(addr), nil
}

func (r *accountRepositoryImpl) UpdateAccount(
	ctx context.Context, addr domain.Address,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	tx, err := txFromContext(ctx)
	if err != nil {
		return err
	}

	if tx == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()

		updatedAccount, err := updateFn(r.getAccount(addr))
		if err != nil {
			return err
		}
		if updatedAccount == nil {
			return ErrNullAccount
		}
		r.store.accounts[addr] = *updatedAccount
		return nil
	}

	account, err := r.GetAccount(ctx, addr)
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
	tx.accounts[addr] = *updatedAccount
	return nil
}

func (r *accountRepositoryImpl) getAccount(addr domain.Address) *domain.Account {
	account, ok := r.store.accounts[addr]
	if !ok {
		return domain.NewAccount(addr)
	}
	return &account
}
