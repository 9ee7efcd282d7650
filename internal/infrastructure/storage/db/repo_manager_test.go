package db_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/inmemory"
)

var (
	ctx        = context.Background()
	authority  = domain.Address{0x11}
	vaultAddr  = domain.Address{0xaa}
	otherVault = domain.Address{0xbb}
	errAbort   = errors.New("abort")
)

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
			repoManager, err := dbbadger.NewRepoManager(t.TempDir(), dbbadger.NewLogger())
			require.NoError(t, err)
			t.Cleanup(repoManager.Close)
			return repoManager
		},
	}
}

func TestAccountRepository(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repo := newRepoManager(t).AccountRepository()

			account, err := repo.GetAccount(ctx, authority)
			require.NoError(t, err)
			require.True(t, account.IsZero())
			require.Equal(t, authority, account.Address)

			err = repo.UpdateAccount(
				ctx, authority, func(a *domain.Account) (*domain.Account, error) {
					a.Lamports = 1000
					a.Space = 42
					return a, nil
				},
			)
			require.NoError(t, err)

			account, err = repo.GetAccount(ctx, authority)
			require.NoError(t, err)
			require.Equal(t, uint64(1000), account.Lamports)
			require.Equal(t, uint64(42), account.Space)

			err = repo.UpdateAccount(
				ctx, authority, func(a *domain.Account) (*domain.Account, error) {
					return nil, errAbort
				},
			)
			require.ErrorIs(t, err, errAbort)

			account, err = repo.GetAccount(ctx, authority)
			require.NoError(t, err)
			require.Equal(t, uint64(1000), account.Lamports)
		})
	}
}

func TestVaultRepository(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repo := newRepoManager(t).VaultRepository()

			_, err := repo.GetVault(ctx, vaultAddr)
			require.ErrorIs(t, err, domain.ErrVaultNotFound)
			_, err = repo.GetVaultByAuthority(ctx, authority)
			require.ErrorIs(t, err, domain.ErrVaultNotFound)

			v, err := domain.NewVaultAccount(vaultAddr, authority, 254)
			require.NoError(t, err)
			require.NoError(t, repo.AddVault(ctx, *v))

			err = repo.AddVault(ctx, *v)
			require.ErrorIs(t, err, domain.ErrVaultAlreadyInitialized)

			vault, err := repo.GetVault(ctx, vaultAddr)
			require.NoError(t, err)
			require.Equal(t, v, vault)

			vault, err = repo.GetVaultByAuthority(ctx, authority)
			require.NoError(t, err)
			require.Equal(t, v, vault)

			err = repo.UpdateVault(
				ctx, vaultAddr,
				func(v *domain.VaultAccount) (*domain.VaultAccount, error) {
					v.Lock()
					return v, nil
				},
			)
			require.NoError(t, err)

			vault, err = repo.GetVault(ctx, vaultAddr)
			require.NoError(t, err)
			require.True(t, vault.IsLocked())
		})
	}
}

func TestEventRepository(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repo := newRepoManager(t).EventRepository()

			events, err := repo.GetAllEvents(ctx, nil)
			require.NoError(t, err)
			require.Empty(t, events)

			records := []domain.Record{
				domain.DepositEvent{Amount: 1, Payer: authority, Vault: vaultAddr},
				domain.DepositEvent{Amount: 2, Payer: authority, Vault: otherVault},
				domain.WithdrawEvent{Amount: 3, Authority: authority, Vault: vaultAddr},
			}
			for i, record := range records {
				event, err := domain.NewEvent(record)
				require.NoError(t, err)
				require.NoError(t, repo.AppendEvent(ctx, event))
				require.Equal(t, uint64(i+1), event.Sequence)
			}

			events, err = repo.GetAllEvents(ctx, nil)
			require.NoError(t, err)
			require.Len(t, events, len(records))
			for i, e := range events {
				require.Equal(t, uint64(i+1), e.Sequence)
				record, err := e.Record()
				require.NoError(t, err)
				require.Equal(t, records[i], record)
			}

			page := domain.NewPage(2, 2)
			events, err = repo.GetAllEvents(ctx, &page)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, uint64(3), events[0].Sequence)

			events, err = repo.GetEventsForVault(ctx, vaultAddr, nil)
			require.NoError(t, err)
			require.Len(t, events, 2)
			require.Equal(t, uint64(1), events[0].Sequence)
			require.Equal(t, uint64(3), events[1].Sequence)

			page = domain.NewPage(3, 2)
			events, err = repo.GetEventsForVault(ctx, vaultAddr, &page)
			require.NoError(t, err)
			require.Empty(t, events)
		})
	}
}

func TestSignatureRepository(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repo := newRepoManager(t).SignatureRepository()
			expiresAt := time.Now().Add(time.Minute)

			added, err := repo.AddSignature(ctx, []byte{1, 2, 3}, expiresAt)
			require.NoError(t, err)
			require.True(t, added)

			added, err = repo.AddSignature(ctx, []byte{1, 2, 3}, expiresAt)
			require.NoError(t, err)
			require.False(t, added)

			added, err = repo.AddSignature(ctx, []byte{4, 5, 6}, expiresAt)
			require.NoError(t, err)
			require.True(t, added)
		})
	}
}

func TestConcurrentSignatureAdds(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repo := newRepoManager(t).SignatureRepository()
			expiresAt := time.Now().Add(time.Minute)

			wg := &sync.WaitGroup{}
			results := make(chan bool, 16)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					added, err := repo.AddSignature(ctx, []byte{7, 7, 7}, expiresAt)
					if err != nil {
						added = false
					}
					results <- added
				}()
			}
			wg.Wait()
			close(results)

			numAdded := 0
			for added := range results {
				if added {
					numAdded++
				}
			}
			require.Equal(t, 1, numAdded)
		})
	}
}

func TestRunTransaction(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repoManager := newRepoManager(t)
			v, _ := domain.NewVaultAccount(vaultAddr, authority, 254)

			// Every write is discarded if the handler fails.
			_, err := repoManager.RunTransaction(
				ctx, false, func(ctx context.Context) (interface{}, error) {
					if err := fund(ctx, repoManager, 500); err != nil {
						return nil, err
					}
					if err := repoManager.VaultRepository().AddVault(ctx, *v); err != nil {
						return nil, err
					}
					if err := appendDeposit(ctx, repoManager, 500); err != nil {
						return nil, err
					}

					// Writes are visible within the transaction.
					account, err := repoManager.AccountRepository().GetAccount(
						ctx, authority,
					)
					if err != nil {
						return nil, err
					}
					if account.Lamports != 500 {
						return nil, errors.New("uncommitted write not visible")
					}
					return nil, errAbort
				},
			)
			require.ErrorIs(t, err, errAbort)

			account, err := repoManager.AccountRepository().GetAccount(ctx, authority)
			require.NoError(t, err)
			require.True(t, account.IsZero())
			_, err = repoManager.VaultRepository().GetVault(ctx, vaultAddr)
			require.ErrorIs(t, err, domain.ErrVaultNotFound)
			events, err := repoManager.EventRepository().GetAllEvents(ctx, nil)
			require.NoError(t, err)
			require.Empty(t, events)

			res, err := repoManager.RunTransaction(
				ctx, false, func(ctx context.Context) (interface{}, error) {
					if err := fund(ctx, repoManager, 700); err != nil {
						return nil, err
					}
					if err := repoManager.VaultRepository().AddVault(ctx, *v); err != nil {
						return nil, err
					}
					// nested transactions join the running one
					return repoManager.RunTransaction(
						ctx, false, func(ctx context.Context) (interface{}, error) {
							return "done", appendDeposit(ctx, repoManager, 700)
						},
					)
				},
			)
			require.NoError(t, err)
			require.Equal(t, "done", res)

			account, err = repoManager.AccountRepository().GetAccount(ctx, authority)
			require.NoError(t, err)
			require.Equal(t, uint64(700), account.Lamports)
			_, err = repoManager.VaultRepository().GetVault(ctx, vaultAddr)
			require.NoError(t, err)

			// The rolled back event did not consume any sequence number.
			events, err = repoManager.EventRepository().GetAllEvents(ctx, nil)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, uint64(1), events[0].Sequence)
		})
	}
}

func TestConcurrentTransactionsAppendingEvents(t *testing.T) {
	for name, newRepoManager := range repoManagers() {
		newRepoManager := newRepoManager
		t.Run(name, func(t *testing.T) {
			repoManager := newRepoManager(t)
			numTxs := 64

			wg := &sync.WaitGroup{}
			errs := make(chan error, numTxs)
			sequences := make(chan uint64, numTxs)
			for i := 0; i < numTxs; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					// every transaction touches only its own vault
					vault := domain.Address{0xcc, byte(i)}
					event, err := domain.NewEvent(domain.DepositEvent{
						Amount: uint64(i + 1), Payer: authority, Vault: vault,
					})
					if err != nil {
						errs <- err
						return
					}
					_, err = repoManager.RunTransaction(
						ctx, false, func(ctx context.Context) (interface{}, error) {
							return nil, repoManager.EventRepository().AppendEvent(ctx, event)
						},
					)
					errs <- err
					sequences <- event.Sequence
				}(i)
			}
			wg.Wait()
			close(errs)
			close(sequences)

			for err := range errs {
				require.NoError(t, err)
			}
			got := make([]int, 0, numTxs)
			for seq := range sequences {
				got = append(got, int(seq))
			}
			sort.Ints(got)
			for i, seq := range got {
				require.Equal(t, i+1, seq)
			}

			events, err := repoManager.EventRepository().GetAllEvents(ctx, nil)
			require.NoError(t, err)
			require.Len(t, events, numTxs)
			for i, e := range events {
				require.Equal(t, uint64(i+1), e.Sequence)
			}
		})
	}
}

func TestEventSequenceSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	repoManager, err := dbbadger.NewRepoManager(dir, nil)
	require.NoError(t, err)
	require.NoError(t, appendDeposit(ctx, repoManager, 1))
	_, err = repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, appendDeposit(ctx, repoManager, 2)
		},
	)
	require.NoError(t, err)
	repoManager.Close()

	repoManager, err = dbbadger.NewRepoManager(dir, nil)
	require.NoError(t, err)
	defer repoManager.Close()

	event, err := domain.NewEvent(domain.DepositEvent{
		Amount: 3, Payer: authority, Vault: vaultAddr,
	})
	require.NoError(t, err)
	require.NoError(t, repoManager.EventRepository().AppendEvent(ctx, event))
	require.Equal(t, uint64(3), event.Sequence)

	events, err := repoManager.EventRepository().GetAllEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)
}

func TestRunTransactionPanic(t *testing.T) {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	defer repoManager.Close()

	_, err = repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := fund(ctx, repoManager, 500); err != nil {
				return nil, err
			}
			panic("boom")
		},
	)
	require.Error(t, err)

	account, err := repoManager.AccountRepository().GetAccount(ctx, authority)
	require.NoError(t, err)
	require.True(t, account.IsZero())
}

func fund(ctx context.Context, repoManager ports.RepoManager, amount uint64) error {
	return repoManager.AccountRepository().UpdateAccount(
		ctx, authority, func(a *domain.Account) (*domain.Account, error) {
			a.Lamports += amount
			return a, nil
		},
	)
}

func appendDeposit(
	ctx context.Context, repoManager ports.RepoManager, amount uint64,
) error {
	event, err := domain.NewEvent(domain.DepositEvent{
		Amount: amount, Payer: authority, Vault: vaultAddr,
	})
	if err != nil {
		return err
	}
	return repoManager.EventRepository().AppendEvent(ctx, event)
}
