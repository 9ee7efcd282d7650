package ledger

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

// FaucetOpts configures the dev faucet minting lamports out of nowhere.
type FaucetOpts struct {
	Enabled   bool
	MaxAmount uint64
}

type service struct {
	repoManager ports.RepoManager
	rent        domain.Rent
	faucet      FaucetOpts
}

// NewService returns a ledger keeping balances in the accounts repository of
// the given repo manager.
func NewService(
	repoManager ports.RepoManager, rent domain.Rent, faucet FaucetOpts,
) ports.Ledger {
	return &service{repoManager, rent, faucet}
}

func (s *service) Rent() domain.Rent {
	return s.rent
}

func (s *service) Balance(
	ctx context.Context, addr domain.Address,
) (uint64, error) {
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, addr)
	if err != nil {
		return 0, err
	}
	return account.Lamports, nil
}

func (s *service) MinimumReserve(
	ctx context.Context, addr domain.Address,
) (uint64, error) {
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, addr)
	if err != nil {
		return 0, err
	}
	return s.rent.MinimumBalance(account.Space), nil
}

func (s *service) Transfer(
	ctx context.Context, from, to domain.Address, amount uint64,
) error {
	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.transfer(ctx, from, to, amount)
		},
	)
	if err != nil {
		return err
	}

	log.Debugf("ledger: transferred %d lamports from %s to %s", amount, from, to)
	return nil
}

func (s *service) CreateAccount(
	ctx context.Context, payer, addr domain.Address, lamports, space uint64,
) error {
	if space == 0 {
		return ErrInvalidSpace
	}

	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			accountRepo := s.repoManager.AccountRepository()

			target, err := accountRepo.GetAccount(ctx, addr)
			if err != nil {
				return nil, err
			}
			if !target.IsZero() {
				return nil, fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, addr)
			}

			if err := s.transfer(ctx, payer, addr, lamports); err != nil {
				return nil, err
			}

			return nil, accountRepo.UpdateAccount(
				ctx, addr, func(a *domain.Account) (*domain.Account, error) {
					pre := *a
					a.Space = space
					if err := checkRentTransition(s.rent, &pre, a); err != nil {
						return nil, err
					}
					return a, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Debugf(
		"ledger: allocated %d bytes for account %s funded with %d lamports",
		space, addr, lamports,
	)
	return nil
}

func (s *service) Airdrop(
	ctx context.Context, addr domain.Address, amount uint64,
) error {
	if !s.faucet.Enabled {
		return ErrFaucetDisabled
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	if s.faucet.MaxAmount > 0 && amount > s.faucet.MaxAmount {
		return fmt.Errorf(
			"%w: max %d lamports", ErrAirdropLimitExceeded, s.faucet.MaxAmount,
		)
	}

	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.AccountRepository().UpdateAccount(
				ctx, addr, func(a *domain.Account) (*domain.Account, error) {
					pre := *a
					lamports, ok := mathutil.CheckedAdd(a.Lamports, amount)
					if !ok {
						return nil, ErrLamportOverflow
					}
					a.Lamports = lamports
					if err := checkRentTransition(s.rent, &pre, a); err != nil {
						return nil, err
					}
					return a, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Debugf("ledger: airdropped %d lamports to %s", amount, addr)
	return nil
}

// transfer moves lamports between two accounts within the transaction
// carried by ctx.
func (s *service) transfer(
	ctx context.Context, from, to domain.Address, amount uint64,
) error {
	accountRepo := s.repoManager.AccountRepository()

	source, err := accountRepo.GetAccount(ctx, from)
	if err != nil {
		return err
	}
	if source.Lamports < amount {
		return fmt.Errorf(
			"%w: account %s holds %d lamports, need %d",
			ErrInsufficientFunds, from, source.Lamports, amount,
		)
	}
	if from.Equal(to) {
		return nil
	}

	if err := accountRepo.UpdateAccount(
		ctx, from, func(a *domain.Account) (*domain.Account, error) {
			pre := *a
			lamports, ok := mathutil.CheckedSub(a.Lamports, amount)
			if !ok {
				return nil, ErrInsufficientFunds
			}
			a.Lamports = lamports
			if err := checkRentTransition(s.rent, &pre, a); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return err
	}

	return accountRepo.UpdateAccount(
		ctx, to, func(a *domain.Account) (*domain.Account, error) {
			pre := *a
			lamports, ok := mathutil.CheckedAdd(a.Lamports, amount)
			if !ok {
				return nil, ErrLamportOverflow
			}
			a.Lamports = lamports
			if err := checkRentTransition(s.rent, &pre, a); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}
