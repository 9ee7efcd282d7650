package vault_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/application/vault"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/ledger"
	dbbadger "github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/inmemory"
)

const sol = uint64(1_000_000_000)

var (
	ctx       = context.Background()
	programID = domain.Address{0xde, 0xad, 0xbe, 0xef}
	authority = domain.Address{0x11}
	payer     = domain.Address{0x22}
	stranger  = domain.Address{0x33}

	vaultReserve = domain.DefaultRent().MinimumBalance(domain.VaultAccountSpace)

	errEventStoreUnavailable = errors.New("event store unavailable")
	errVaultStoreUnavailable = errors.New("vault store unavailable")
)

type testEnv struct {
	svc         application.VaultService
	ledger      ports.Ledger
	repoManager ports.RepoManager
	resolver    *domain.AddressResolver
}

type repoManagerFactory func(t *testing.T) ports.RepoManager

func repoManagers() map[string]repoManagerFactory {
	return map[string]repoManagerFactory{
		"inmemory": func(t *testing.T) ports.RepoManager {
			return inmemory.NewRepoManager()
		},
		"badger_inmemory": func(t *testing.T) ports.RepoManager {
			repoManager, err := dbbadger.NewRepoManager("", nil)
			require.NoError(t, err)
			t.Cleanup(repoManager.Close)
			return repoManager
		},
		"badger": func(t *testing.T) ports.RepoManager {
			repoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
			require.NoError(t, err)
			t.Cleanup(repoManager.Close)
			return repoManager
		},
	}
}

func newTestEnv(t *testing.T, repoManager ports.RepoManager) *testEnv {
	l := ledger.NewService(
		repoManager, domain.DefaultRent(), ledger.FaucetOpts{Enabled: true},
	)
	env := newTestEnvWithLedger(t, repoManager, l)

	require.NoError(t, l.Airdrop(ctx, authority, 10*sol))
	require.NoError(t, l.Airdrop(ctx, payer, 5*sol))
	return env
}

func newTestEnvWithLedger(
	t *testing.T, repoManager ports.RepoManager, l ports.Ledger,
) *testEnv {
	resolver, err := domain.NewAddressResolver(programID)
	require.NoError(t, err)
	executor := ledger.NewExecutor(repoManager, nil)

	svc, err := vault.NewService(resolver, l, executor, repoManager, nil)
	require.NoError(t, err)

	return &testEnv{svc, l, repoManager, resolver}
}

func (e *testEnv) balance(t *testing.T, addr domain.Address) uint64 {
	balance, err := e.ledger.Balance(ctx, addr)
	require.NoError(t, err)
	return balance
}

func (e *testEnv) events(t *testing.T) []domain.Event {
	events, err := e.svc.ListEvents(ctx, nil)
	require.NoError(t, err)
	return events
}

// addVault stores a vault record for authority without touching the ledger.
func (e *testEnv) addVault(t *testing.T, locked bool) domain.Address {
	addr, bump, err := e.resolver.FindVaultAddress(authority)
	require.NoError(t, err)
	v, err := domain.NewVaultAccount(addr, authority, bump)
	require.NoError(t, err)
	if locked {
		v.Lock()
	}
	require.NoError(t, e.repoManager.VaultRepository().AddVault(ctx, *v))
	return addr
}

func TestVaultLifecycle(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newRepoManager(t))

			info, err := env.svc.InitializeVault(ctx, authority)
			require.NoError(t, err)
			require.Equal(t, authority.String(), info.GetAuthority())
			require.False(t, info.IsLocked())
			require.Equal(t, vaultReserve, info.GetBalance())
			require.Equal(t, vaultReserve, info.GetMinimumReserve())
			require.Zero(t, info.GetSpendable())

			vaultAddr, err := domain.ParseAddress(info.GetAddress())
			require.NoError(t, err)
			require.NoError(t, env.resolver.VerifyVaultAddress(
				vaultAddr, authority, info.GetBump(),
			))
			require.Equal(t, 10*sol-vaultReserve, env.balance(t, authority))

			_, err = env.svc.InitializeVault(ctx, authority)
			require.ErrorIs(t, err, domain.ErrVaultAlreadyInitialized)

			err = env.svc.Deposit(ctx, payer, vaultAddr, 2*sol)
			require.NoError(t, err)
			require.Equal(t, 3*sol, env.balance(t, payer))
			require.Equal(t, vaultReserve+2*sol, env.balance(t, vaultAddr))

			err = env.svc.Withdraw(ctx, authority, vaultAddr, sol)
			require.NoError(t, err)
			require.Equal(t, vaultReserve+sol, env.balance(t, vaultAddr))
			require.Equal(t, 11*sol-vaultReserve, env.balance(t, authority))

			total := env.balance(t, payer) + env.balance(t, authority) +
				env.balance(t, vaultAddr)
			require.Equal(t, 15*sol, total)

			// The vault can be emptied down to its reserve, not below.
			err = env.svc.Withdraw(ctx, authority, vaultAddr, sol)
			require.NoError(t, err)
			require.Equal(t, vaultReserve, env.balance(t, vaultAddr))
			err = env.svc.Withdraw(ctx, authority, vaultAddr, 1)
			require.ErrorIs(t, err, domain.ErrInsufficientBalance)

			events := env.events(t)
			require.Len(t, events, 4)
			expectedTypes := []domain.EventType{
				domain.EventVaultInitialized, domain.EventVaultDeposit,
				domain.EventVaultWithdraw, domain.EventVaultWithdraw,
			}
			for i, e := range events {
				require.Equal(t, uint64(i+1), e.Sequence)
				require.Equal(t, expectedTypes[i], e.Type)
				require.Equal(t, vaultAddr, e.Vault)
			}

			record, err := events[1].Record()
			require.NoError(t, err)
			require.Equal(t, domain.DepositEvent{
				Amount: 2 * sol, Payer: payer, Vault: vaultAddr,
			}, record)

			record, err = events[2].Record()
			require.NoError(t, err)
			require.Equal(t, domain.WithdrawEvent{
				Amount: sol, Authority: authority, Vault: vaultAddr,
			}, record)

			page := domain.NewPage(2, 3)
			events, err = env.svc.ListEventsForVault(ctx, vaultAddr, &page)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, uint64(4), events[0].Sequence)

			info, err = env.svc.GetVaultByAuthority(ctx, authority)
			require.NoError(t, err)
			require.Equal(t, vaultAddr.String(), info.GetAddress())

			account, err := env.svc.GetAccount(ctx, vaultAddr)
			require.NoError(t, err)
			require.Equal(t, uint64(domain.VaultAccountSpace), account.GetSpace())
			require.Equal(t, vaultReserve, account.GetMinimumReserve())
		})
	}
}

func TestInvalidInstructions(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newRepoManager(t))
			info, err := env.svc.InitializeVault(ctx, authority)
			require.NoError(t, err)
			vaultAddr, _ := domain.ParseAddress(info.GetAddress())
			require.NoError(t, env.svc.Deposit(ctx, payer, vaultAddr, sol))

			unknownVault, _, err := env.resolver.FindVaultAddress(stranger)
			require.NoError(t, err)

			tests := []struct {
				name        string
				run         func() error
				expectedErr error
			}{
				{
					name: "deposit to unknown vault",
					run: func() error {
						return env.svc.Deposit(ctx, payer, unknownVault, sol)
					},
					expectedErr: domain.ErrVaultNotFound,
				},
				{
					name: "deposit zero amount",
					run: func() error {
						return env.svc.Deposit(ctx, payer, vaultAddr, 0)
					},
					expectedErr: domain.ErrInvalidAmount,
				},
				{
					name: "deposit overflow",
					run: func() error {
						return env.svc.Deposit(ctx, payer, vaultAddr, math.MaxUint64)
					},
					expectedErr: domain.ErrArithmeticOverflow,
				},
				{
					name: "deposit leaving payer below reserve",
					run: func() error {
						return env.svc.Deposit(ctx, payer, vaultAddr, 4*sol)
					},
					expectedErr: domain.ErrInsufficientBalance,
				},
				{
					name: "withdraw zero amount",
					run: func() error {
						return env.svc.Withdraw(ctx, authority, vaultAddr, 0)
					},
					expectedErr: domain.ErrInvalidAmount,
				},
				{
					name: "withdraw zero amount by non authority",
					run: func() error {
						return env.svc.Withdraw(ctx, stranger, vaultAddr, 0)
					},
					expectedErr: domain.ErrUnauthorized,
				},
				{
					name: "withdraw by non authority",
					run: func() error {
						return env.svc.Withdraw(ctx, payer, vaultAddr, 1)
					},
					expectedErr: domain.ErrUnauthorized,
				},
				{
					name: "withdraw more than spendable",
					run: func() error {
						return env.svc.Withdraw(ctx, authority, vaultAddr, sol+1)
					},
					expectedErr: domain.ErrInsufficientBalance,
				},
				{
					name: "withdraw overflow",
					run: func() error {
						return env.svc.Withdraw(ctx, authority, vaultAddr, math.MaxUint64)
					},
					expectedErr: domain.ErrArithmeticOverflow,
				},
				{
					name: "lock by non authority",
					run: func() error {
						return env.svc.SetVaultLock(ctx, stranger, vaultAddr, true)
					},
					expectedErr: domain.ErrUnauthorized,
				},
			}

			for _, tt := range tests {
				tt := tt
				t.Run(tt.name, func(t *testing.T) {
					payerBalance := env.balance(t, payer)
					authorityBalance := env.balance(t, authority)
					vaultBalance := env.balance(t, vaultAddr)
					numEvents := len(env.events(t))

					err := tt.run()
					require.ErrorIs(t, err, tt.expectedErr)

					require.Equal(t, payerBalance, env.balance(t, payer))
					require.Equal(t, authorityBalance, env.balance(t, authority))
					require.Equal(t, vaultBalance, env.balance(t, vaultAddr))
					require.Len(t, env.events(t), numEvents)
				})
			}
		})
	}
}

func TestVaultLock(t *testing.T) {
	env := newTestEnv(t, inmemory.NewRepoManager())
	info, err := env.svc.InitializeVault(ctx, authority)
	require.NoError(t, err)
	vaultAddr, _ := domain.ParseAddress(info.GetAddress())
	require.NoError(t, env.svc.Deposit(ctx, payer, vaultAddr, sol))

	err = env.svc.SetVaultLock(ctx, authority, vaultAddr, true)
	require.NoError(t, err)
	info, err = env.svc.GetVault(ctx, vaultAddr)
	require.NoError(t, err)
	require.True(t, info.IsLocked())

	// Setting the same state again does not produce any event.
	err = env.svc.SetVaultLock(ctx, authority, vaultAddr, true)
	require.NoError(t, err)
	require.Len(t, env.events(t), 3)

	err = env.svc.Deposit(ctx, payer, vaultAddr, sol)
	require.ErrorIs(t, err, domain.ErrVaultLocked)
	err = env.svc.Withdraw(ctx, authority, vaultAddr, sol)
	require.ErrorIs(t, err, domain.ErrVaultLocked)
	// Authorization is checked before the lock.
	err = env.svc.Withdraw(ctx, stranger, vaultAddr, sol)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.svc.SetVaultLock(ctx, authority, vaultAddr, false)
	require.NoError(t, err)
	err = env.svc.Withdraw(ctx, authority, vaultAddr, sol)
	require.NoError(t, err)

	events := env.events(t)
	require.Len(t, events, 5)
	record, err := events[2].Record()
	require.NoError(t, err)
	require.Equal(t, domain.VaultLockChangedEvent{
		Authority: authority, Vault: vaultAddr, Locked: true,
	}, record)
	require.Equal(t, domain.EventVaultLockChanged, events[3].Type)
}

func TestInitializeVaultInsufficientBalance(t *testing.T) {
	env := newTestEnv(t, inmemory.NewRepoManager())

	_, err := env.svc.InitializeVault(ctx, stranger)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.Empty(t, env.events(t))

	_, err = env.svc.GetVaultByAuthority(ctx, stranger)
	require.ErrorIs(t, err, domain.ErrVaultNotFound)
}

func TestAddressMismatch(t *testing.T) {
	env := newTestEnv(t, inmemory.NewRepoManager())

	// The record claims a different authority than the one the address is
	// derived from.
	vaultAddr, bump, err := env.resolver.FindVaultAddress(authority)
	require.NoError(t, err)
	err = env.repoManager.VaultRepository().AddVault(ctx, domain.VaultAccount{
		Address:   vaultAddr,
		Authority: stranger,
		Bump:      bump,
	})
	require.NoError(t, err)

	err = env.svc.Deposit(ctx, payer, vaultAddr, sol)
	require.ErrorIs(t, err, domain.ErrAddressMismatch)
	err = env.svc.Withdraw(ctx, stranger, vaultAddr, sol)
	require.ErrorIs(t, err, domain.ErrAddressMismatch)
	require.Equal(t, 5*sol, env.balance(t, payer))
}

func TestEmissionFailureRollsBack(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newRepoManager(t))
			info, err := env.svc.InitializeVault(ctx, authority)
			require.NoError(t, err)
			vaultAddr, _ := domain.ParseAddress(info.GetAddress())
			require.NoError(t, env.svc.Deposit(ctx, payer, vaultAddr, sol))

			failingEnv := newTestEnvWithLedger(
				t, failingEventsRepoManager{env.repoManager}, env.ledger,
			)

			err = failingEnv.svc.Deposit(ctx, payer, vaultAddr, sol)
			require.ErrorIs(t, err, errEventStoreUnavailable)
			require.Equal(t, 4*sol, env.balance(t, payer))
			require.Equal(t, vaultReserve+sol, env.balance(t, vaultAddr))

			authorityBalance := env.balance(t, authority)
			err = failingEnv.svc.Withdraw(ctx, authority, vaultAddr, sol)
			require.ErrorIs(t, err, errEventStoreUnavailable)
			require.Equal(t, authorityBalance, env.balance(t, authority))
			require.Equal(t, vaultReserve+sol, env.balance(t, vaultAddr))

			err = failingEnv.svc.SetVaultLock(ctx, authority, vaultAddr, true)
			require.ErrorIs(t, err, errEventStoreUnavailable)
			info, err = env.svc.GetVault(ctx, vaultAddr)
			require.NoError(t, err)
			require.False(t, info.IsLocked())

			require.Len(t, env.events(t), 2)
		})
	}
}

func TestInitializeVaultStorageFailure(t *testing.T) {
	env := newTestEnv(t, inmemory.NewRepoManager())
	failingEnv := newTestEnvWithLedger(
		t, failingVaultsRepoManager{env.repoManager}, env.ledger,
	)

	_, err := failingEnv.svc.InitializeVault(ctx, authority)
	require.ErrorIs(t, err, errVaultStoreUnavailable)
	require.Equal(t, 10*sol, env.balance(t, authority))
	require.Empty(t, env.events(t))
}

func TestPublishCommittedEvents(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	l := ledger.NewService(
		repoManager, domain.DefaultRent(), ledger.FaucetOpts{Enabled: true},
	)
	require.NoError(t, l.Airdrop(ctx, authority, 10*sol))
	resolver, err := domain.NewAddressResolver(programID)
	require.NoError(t, err)
	executor := ledger.NewExecutor(repoManager, nil)
	publisher := newRecordingPublisher()

	svc, err := application.NewVaultService(
		resolver, l, executor, repoManager, publisher,
	)
	require.NoError(t, err)

	info, err := svc.InitializeVault(ctx, authority)
	require.NoError(t, err)
	vaultAddr, _ := domain.ParseAddress(info.GetAddress())
	require.NoError(t, svc.SetVaultLock(ctx, authority, vaultAddr, true))

	// a rejected instruction is never published
	err = svc.Withdraw(ctx, authority, vaultAddr, 1)
	require.ErrorIs(t, err, domain.ErrVaultLocked)

	broadcasted := publisher.broadcasted()
	require.Len(t, broadcasted, 2)
	require.Equal(t, domain.EventVaultInitialized, broadcasted[0].Type)
	require.Equal(t, uint64(1), broadcasted[0].Sequence)
	require.Equal(t, domain.EventVaultLockChanged, broadcasted[1].Type)
	require.Equal(t, uint64(2), broadcasted[1].Sequence)

	require.Eventually(t, func() bool {
		return len(publisher.published()) == 2
	}, time.Second, 10*time.Millisecond)

	// without a publisher events are only stored
	svc, err = application.NewVaultService(
		resolver, l, executor, repoManager, nil,
	)
	require.NoError(t, err)
	require.NoError(t, svc.SetVaultLock(ctx, authority, vaultAddr, false))
	require.Len(t, publisher.broadcasted(), 2)
}

func TestConcurrentDepositsIntoDistinctVaults(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newRepoManager(t))
			numVaults := 32

			authorities := make([]domain.Address, 0, numVaults)
			payers := make([]domain.Address, 0, numVaults)
			for i := 0; i < numVaults; i++ {
				a := domain.Address{0x40, byte(i)}
				p := domain.Address{0x50, byte(i)}
				require.NoError(t, env.svc.Airdrop(ctx, a, 2*sol))
				require.NoError(t, env.svc.Airdrop(ctx, p, 2*sol))
				authorities = append(authorities, a)
				payers = append(payers, p)
			}

			vaults := make([]domain.Address, numVaults)
			run := func(f func(i int) error) {
				wg := &sync.WaitGroup{}
				errs := make(chan error, numVaults)
				for i := 0; i < numVaults; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						errs <- f(i)
					}(i)
				}
				wg.Wait()
				close(errs)
				for err := range errs {
					require.NoError(t, err)
				}
			}

			run(func(i int) error {
				info, err := env.svc.InitializeVault(ctx, authorities[i])
				if err != nil {
					return err
				}
				vaults[i], err = domain.ParseAddress(info.GetAddress())
				return err
			})
			run(func(i int) error {
				return env.svc.Deposit(ctx, payers[i], vaults[i], sol)
			})

			for i := 0; i < numVaults; i++ {
				require.Equal(t, vaultReserve+sol, env.balance(t, vaults[i]))
				require.Equal(t, sol, env.balance(t, payers[i]))
			}

			events := env.events(t)
			require.Len(t, events, 2*numVaults)
			for i, e := range events {
				require.Equal(t, uint64(i+1), e.Sequence)
			}
		})
	}
}

func TestConcurrentDeposits(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, newRepoManager(t))
			info, err := env.svc.InitializeVault(ctx, authority)
			require.NoError(t, err)
			vaultAddr, _ := domain.ParseAddress(info.GetAddress())

			wg := &sync.WaitGroup{}
			errs := make(chan error, 10)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- env.svc.Deposit(ctx, payer, vaultAddr, sol/10)
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			require.Equal(t, 4*sol, env.balance(t, payer))
			require.Equal(t, vaultReserve+sol, env.balance(t, vaultAddr))

			events := env.events(t)
			require.Len(t, events, 11)
			for i, e := range events {
				require.Equal(t, uint64(i+1), e.Sequence)
			}
		})
	}
}

func TestTransferRules(t *testing.T) {
	t.Run("deposit within reserve", func(t *testing.T) {
		fake := newFakeLedger()
		env := newTestEnvWithLedger(t, inmemory.NewRepoManager(), fake)
		vaultAddr := env.addVault(t, false)
		fake.set(payer, 600, 50)

		err := env.svc.Deposit(ctx, payer, vaultAddr, 500)
		require.NoError(t, err)
		require.Equal(t, uint64(100), env.balance(t, payer))
		require.Equal(t, uint64(500), env.balance(t, vaultAddr))

		events := env.events(t)
		require.Len(t, events, 1)
		record, err := events[0].Record()
		require.NoError(t, err)
		require.Equal(t, uint64(500), record.(domain.DepositEvent).Amount)
	})

	t.Run("withdraw from locked vault", func(t *testing.T) {
		fake := newFakeLedger()
		env := newTestEnvWithLedger(t, inmemory.NewRepoManager(), fake)
		vaultAddr := env.addVault(t, true)
		fake.set(vaultAddr, 10000, 50)

		err := env.svc.Withdraw(ctx, authority, vaultAddr, 1)
		require.ErrorIs(t, err, domain.ErrVaultLocked)
		require.Equal(t, uint64(10000), env.balance(t, vaultAddr))
		require.Empty(t, env.events(t))
	})

	t.Run("withdraw more than balance", func(t *testing.T) {
		fake := newFakeLedger()
		env := newTestEnvWithLedger(t, inmemory.NewRepoManager(), fake)
		vaultAddr := env.addVault(t, false)
		fake.set(vaultAddr, 1500, 50)

		err := env.svc.Withdraw(ctx, authority, vaultAddr, 2000)
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		require.Equal(t, uint64(1500), env.balance(t, vaultAddr))
	})

	t.Run("overflow before balance check", func(t *testing.T) {
		l := &mockLedger{}
		env := newTestEnvWithLedger(t, inmemory.NewRepoManager(), l)
		vaultAddr := env.addVault(t, false)
		l.On("MinimumReserve", mock.Anything, payer).Return(uint64(1), nil)

		err := env.svc.Deposit(ctx, payer, vaultAddr, math.MaxUint64)
		require.ErrorIs(t, err, domain.ErrArithmeticOverflow)
		l.AssertNotCalled(t, "Balance", mock.Anything, mock.Anything)
		l.AssertNotCalled(
			t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		)
	})
}

func TestTransferFailed(t *testing.T) {
	l := &mockLedger{}
	env := newTestEnvWithLedger(t, inmemory.NewRepoManager(), l)
	vaultAddr := env.addVault(t, false)

	l.On("MinimumReserve", mock.Anything, mock.Anything).Return(uint64(50), nil)
	l.On("Balance", mock.Anything, mock.Anything).Return(uint64(600), nil)
	l.On("Transfer", mock.Anything, payer, vaultAddr, uint64(500)).
		Return(errors.New("ledger unavailable"))
	l.On("Transfer", mock.Anything, vaultAddr, authority, uint64(500)).
		Return(errors.New("ledger unavailable"))

	err := env.svc.Deposit(ctx, payer, vaultAddr, 500)
	require.ErrorIs(t, err, domain.ErrTransferFailed)

	err = env.svc.Withdraw(ctx, authority, vaultAddr, 500)
	require.ErrorIs(t, err, domain.ErrTransferFailed)

	require.Empty(t, env.events(t))
	l.AssertNumberOfCalls(t, "Transfer", 2)
}

func TestNewService(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	resolver, _ := domain.NewAddressResolver(programID)
	l := &mockLedger{}
	executor := ledger.NewExecutor(repoManager, nil)

	tests := []struct {
		name        string
		resolver    *domain.AddressResolver
		ledger      ports.Ledger
		executor    ports.Executor
		repoManager ports.RepoManager
		expectedErr error
	}{
		{"missing resolver", nil, l, executor, repoManager, vault.ErrMissingResolver},
		{"missing ledger", resolver, nil, executor, repoManager, vault.ErrMissingLedger},
		{"missing executor", resolver, l, nil, repoManager, vault.ErrMissingExecutor},
		{"missing repo manager", resolver, l, executor, nil, vault.ErrMissingRepoManager},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := vault.NewService(
				tt.resolver, tt.ledger, tt.executor, tt.repoManager, nil,
			)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
