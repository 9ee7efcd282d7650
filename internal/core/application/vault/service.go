package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
	"github.com/tdex-network/tdex-vault/pkg/stats"
)

// Publisher notifies observers about the committed audit events.
type Publisher interface {
	// Broadcast forwards the event to the live streams.
	Broadcast(event domain.Event)
	// PublishEvent delivers the event to the webhooks registered for it.
	PublishEvent(event domain.Event) error
}

type service struct {
	resolver    *domain.AddressResolver
	ledger      ports.Ledger
	executor    ports.Executor
	repoManager ports.RepoManager
	publisher   Publisher
}

// NewService returns the vault service. The publisher is optional, if
// missing audit events are only stored.
func NewService(
	resolver *domain.AddressResolver, ledger ports.Ledger,
	executor ports.Executor, repoManager ports.RepoManager,
	publisher Publisher,
) (*service, error) {
	if resolver == nil {
		return nil, ErrMissingResolver
	}
	if ledger == nil {
		return nil, ErrMissingLedger
	}
	if executor == nil {
		return nil, ErrMissingExecutor
	}
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}

	return &service{resolver, ledger, executor, repoManager, publisher}, nil
}

func (s *service) InitializeVault(
	ctx context.Context, authority domain.Address,
) (info ports.VaultInfo, err error) {
	defer func(start time.Time) {
		stats.RecordInstruction("initialize", 0, start, err)
	}(time.Now())

	vaultAddr, bump, err := s.resolver.FindVaultAddress(authority)
	if err != nil {
		return nil, err
	}
	vault, err := domain.NewVaultAccount(vaultAddr, authority, bump)
	if err != nil {
		return nil, err
	}

	var event *domain.Event
	if err := s.executor.Execute(
		ctx, []domain.Address{authority, vaultAddr},
		func(ctx context.Context) error {
			_, err := s.repoManager.VaultRepository().GetVault(ctx, vaultAddr)
			if err == nil {
				return domain.ErrVaultAlreadyInitialized
			}
			if !errors.Is(err, domain.ErrVaultNotFound) {
				return err
			}

			vaultReserve := s.ledger.Rent().MinimumBalance(domain.VaultAccountSpace)
			if err := s.checkSpendable(ctx, authority, vaultReserve); err != nil {
				return err
			}

			if err := s.ledger.CreateAccount(
				ctx, authority, vaultAddr, vaultReserve, domain.VaultAccountSpace,
			); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
			}
			if err := s.repoManager.VaultRepository().AddVault(ctx, *vault); err != nil {
				return err
			}

			e, err := s.emit(ctx, domain.VaultInitializedEvent{
				Authority: authority,
				Vault:     vaultAddr,
				Bump:      bump,
				Reserve:   vaultReserve,
			})
			event = e
			return err
		},
	); err != nil {
		return nil, err
	}

	s.publish(event)
	log.Debugf("vault: initialized vault %s for authority %s", vaultAddr, authority)

	return s.GetVault(ctx, vaultAddr)
}

func (s *service) Deposit(
	ctx context.Context, payer, vaultAddr domain.Address, amount uint64,
) (err error) {
	defer func(start time.Time) {
		stats.RecordInstruction("deposit", amount, start, err)
	}(time.Now())

	var event *domain.Event
	if err := s.executor.Execute(
		ctx, []domain.Address{payer, vaultAddr},
		func(ctx context.Context) error {
			vault, err := s.getVerifiedVault(ctx, vaultAddr)
			if err != nil {
				return err
			}
			if amount == 0 {
				return domain.ErrInvalidAmount
			}
			if vault.IsLocked() {
				return domain.ErrVaultLocked
			}

			if err := s.checkSpendable(ctx, payer, amount); err != nil {
				return err
			}

			if err := s.ledger.Transfer(ctx, payer, vaultAddr, amount); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
			}

			event, err = s.emit(ctx, domain.DepositEvent{
				Amount: amount,
				Payer:  payer,
				Vault:  vaultAddr,
			})
			return err
		},
	); err != nil {
		return err
	}

	s.publish(event)
	log.Debugf("vault: deposited %d lamports from %s into %s", amount, payer, vaultAddr)
	return nil
}

func (s *service) Withdraw(
	ctx context.Context, authority, vaultAddr domain.Address, amount uint64,
) (err error) {
	defer func(start time.Time) {
		stats.RecordInstruction("withdraw", amount, start, err)
	}(time.Now())

	var event *domain.Event
	if err := s.executor.Execute(
		ctx, []domain.Address{authority, vaultAddr},
		func(ctx context.Context) error {
			vault, err := s.getVerifiedVault(ctx, vaultAddr)
			if err != nil {
				return err
			}
			if !vault.IsAuthority(authority) {
				return domain.ErrUnauthorized
			}
			if amount == 0 {
				return domain.ErrInvalidAmount
			}
			if vault.IsLocked() {
				return domain.ErrVaultLocked
			}

			if err := s.checkSpendable(ctx, vaultAddr, amount); err != nil {
				return err
			}

			if err := s.ledger.Transfer(
				ctx, vaultAddr, vault.AuthorityAddress(), amount,
			); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
			}

			event, err = s.emit(ctx, domain.WithdrawEvent{
				Amount:    amount,
				Authority: authority,
				Vault:     vaultAddr,
			})
			return err
		},
	); err != nil {
		return err
	}

	s.publish(event)
	log.Debugf("vault: withdrew %d lamports from %s to %s", amount, vaultAddr, authority)
	return nil
}

// SetVaultLock locks or unlocks the vault. Setting the current state again
// is a no-op.
func (s *service) SetVaultLock(
	ctx context.Context, authority, vaultAddr domain.Address, locked bool,
) (err error) {
	defer func(start time.Time) {
		stats.RecordInstruction("set_lock", 0, start, err)
	}(time.Now())

	var event *domain.Event
	if err := s.executor.Execute(
		ctx, []domain.Address{authority, vaultAddr},
		func(ctx context.Context) error {
			vault, err := s.getVerifiedVault(ctx, vaultAddr)
			if err != nil {
				return err
			}
			if !vault.IsAuthority(authority) {
				return domain.ErrUnauthorized
			}
			if vault.IsLocked() == locked {
				return nil
			}

			if err := s.repoManager.VaultRepository().UpdateVault(
				ctx, vaultAddr,
				func(v *domain.VaultAccount) (*domain.VaultAccount, error) {
					if locked {
						v.Lock()
					} else {
						v.Unlock()
					}
					return v, nil
				},
			); err != nil {
				return err
			}

			event, err = s.emit(ctx, domain.VaultLockChangedEvent{
				Authority: authority,
				Vault:     vaultAddr,
				Locked:    locked,
			})
			return err
		},
	); err != nil {
		return err
	}

	if event != nil {
		s.publish(event)
		log.Debugf("vault: set lock of %s to %t", vaultAddr, locked)
	}
	return nil
}

func (s *service) GetVault(
	ctx context.Context, vaultAddr domain.Address,
) (ports.VaultInfo, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			vault, err := s.repoManager.VaultRepository().GetVault(ctx, vaultAddr)
			if err != nil {
				return nil, err
			}
			return s.getVaultInfo(ctx, vault)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(ports.VaultInfo), nil
}

func (s *service) GetVaultByAuthority(
	ctx context.Context, authority domain.Address,
) (ports.VaultInfo, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			vault, err := s.repoManager.VaultRepository().GetVaultByAuthority(
				ctx, authority,
			)
			if err != nil {
				return nil, err
			}
			return s.getVaultInfo(ctx, vault)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(ports.VaultInfo), nil
}

func (s *service) GetAccount(
	ctx context.Context, addr domain.Address,
) (ports.AccountInfo, error) {
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	return accountInfo{
		account: *account,
		reserve: s.ledger.Rent().MinimumBalance(account.Space),
	}, nil
}

func (s *service) Airdrop(
	ctx context.Context, addr domain.Address, amount uint64,
) (err error) {
	defer func(start time.Time) {
		stats.RecordInstruction("airdrop", amount, start, err)
	}(time.Now())

	return s.executor.Execute(
		ctx, []domain.Address{addr}, func(ctx context.Context) error {
			return s.ledger.Airdrop(ctx, addr, amount)
		},
	)
}

func (s *service) ListEvents(
	ctx context.Context, page *domain.Page,
) ([]domain.Event, error) {
	return s.repoManager.EventRepository().GetAllEvents(ctx, page)
}

func (s *service) ListEventsForVault(
	ctx context.Context, vaultAddr domain.Address, page *domain.Page,
) ([]domain.Event, error) {
	return s.repoManager.EventRepository().GetEventsForVault(ctx, vaultAddr, page)
}

// getVerifiedVault resolves the vault record at the given address and makes
// sure the address matches the derivation from its authority and bump.
func (s *service) getVerifiedVault(
	ctx context.Context, vaultAddr domain.Address,
) (*domain.VaultAccount, error) {
	vault, err := s.repoManager.VaultRepository().GetVault(ctx, vaultAddr)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.VerifyVaultAddress(
		vaultAddr, vault.Authority, vault.Bump,
	); err != nil {
		return nil, err
	}
	return vault, nil
}

// checkSpendable makes sure the account at addr can give away amount
// lamports and still hold its minimum reserve.
func (s *service) checkSpendable(
	ctx context.Context, addr domain.Address, amount uint64,
) error {
	reserve, err := s.ledger.MinimumReserve(ctx, addr)
	if err != nil {
		return err
	}
	required, ok := mathutil.CheckedAdd(amount, reserve)
	if !ok {
		return domain.ErrArithmeticOverflow
	}

	balance, err := s.ledger.Balance(ctx, addr)
	if err != nil {
		return err
	}
	if balance < required {
		return fmt.Errorf(
			"%w: account %s holds %d lamports, required %d",
			domain.ErrInsufficientBalance, addr, balance, required,
		)
	}
	return nil
}

// emit appends the audit record to the event log within the transaction of
// the running instruction.
func (s *service) emit(
	ctx context.Context, record domain.Record,
) (*domain.Event, error) {
	event, err := domain.NewEvent(record)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.EventRepository().AppendEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// publish notifies observers of a committed event. Notification failures
// never affect the outcome of the instruction.
func (s *service) publish(event *domain.Event) {
	if s.publisher == nil || event == nil {
		return
	}

	s.publisher.Broadcast(*event)

	go func(event domain.Event) {
		if err := s.publisher.PublishEvent(event); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish %s event %d", event.Type, event.Sequence,
			)
		}
	}(*event)
}

func (s *service) getVaultInfo(
	ctx context.Context, vault *domain.VaultAccount,
) (ports.VaultInfo, error) {
	balance, err := s.ledger.Balance(ctx, vault.Address)
	if err != nil {
		return nil, err
	}
	reserve, err := s.ledger.MinimumReserve(ctx, vault.Address)
	if err != nil {
		return nil, err
	}
	return vaultInfo{*vault, balance, reserve}, nil
}
