package ledger

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

type executor struct {
	repoManager ports.RepoManager
	locker      *AccountLocker
}

// NewExecutor returns an executor that runs every instruction within a
// single storage transaction while holding the locks of the accounts it
// references.
func NewExecutor(
	repoManager ports.RepoManager, locker *AccountLocker,
) ports.Executor {
	if locker == nil {
		locker = NewAccountLocker()
	}
	return &executor{repoManager, locker}
}

func (e *executor) Execute(
	ctx context.Context, accounts []domain.Address,
	instruction func(ctx context.Context) error,
) error {
	unlock := e.locker.Lock(accounts...)
	defer unlock()

	_, err := e.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, instruction(ctx)
		},
	)
	return err
}
