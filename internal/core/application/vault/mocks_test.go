package vault_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

// **** Ledger ****

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Balance(ctx context.Context, addr domain.Address) (uint64, error) {
	args := m.Called(ctx, addr)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockLedger) MinimumReserve(
	ctx context.Context, addr domain.Address,
) (uint64, error) {
	args := m.Called(ctx, addr)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockLedger) Transfer(
	ctx context.Context, from, to domain.Address, amount uint64,
) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *mockLedger) CreateAccount(
	ctx context.Context, payer, addr domain.Address, lamports, space uint64,
) error {
	args := m.Called(ctx, payer, addr, lamports, space)
	return args.Error(0)
}

func (m *mockLedger) Airdrop(
	ctx context.Context, addr domain.Address, amount uint64,
) error {
	args := m.Called(ctx, addr, amount)
	return args.Error(0)
}

func (m *mockLedger) Rent() domain.Rent {
	args := m.Called()
	return args.Get(0).(domain.Rent)
}

// **** Fake ledger ****

// fakeLedger keeps balances in memory and lets tests choose the minimum
// reserve of every account.
type fakeLedger struct {
	lock     *sync.Mutex
	balances map[domain.Address]uint64
	reserves map[domain.Address]uint64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		lock:     &sync.Mutex{},
		balances: make(map[domain.Address]uint64),
		reserves: make(map[domain.Address]uint64),
	}
}

func (l *fakeLedger) set(addr domain.Address, balance, reserve uint64) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.balances[addr] = balance
	l.reserves[addr] = reserve
}

func (l *fakeLedger) Balance(_ context.Context, addr domain.Address) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.balances[addr], nil
}

func (l *fakeLedger) MinimumReserve(
	_ context.Context, addr domain.Address,
) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.reserves[addr], nil
}

func (l *fakeLedger) Transfer(
	_ context.Context, from, to domain.Address, amount uint64,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.balances[from] < amount {
		return fmt.Errorf("insufficient funds")
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *fakeLedger) CreateAccount(
	_ context.Context, _, _ domain.Address, _, _ uint64,
) error {
	return fmt.Errorf("not supported")
}

func (l *fakeLedger) Airdrop(_ context.Context, _ domain.Address, _ uint64) error {
	return fmt.Errorf("not supported")
}

func (l *fakeLedger) Rent() domain.Rent {
	return domain.DefaultRent()
}

// **** Repositories ****

// failingEventsRepoManager makes every event append fail.
type failingEventsRepoManager struct {
	ports.RepoManager
}

func (r failingEventsRepoManager) EventRepository() domain.EventRepository {
	return failingEventRepository{r.RepoManager.EventRepository()}
}

type failingEventRepository struct {
	domain.EventRepository
}

func (r failingEventRepository) AppendEvent(
	_ context.Context, _ *domain.Event,
) error {
	return errEventStoreUnavailable
}

// failingVaultsRepoManager makes every vault lookup fail.
type failingVaultsRepoManager struct {
	ports.RepoManager
}

func (r failingVaultsRepoManager) VaultRepository() domain.VaultRepository {
	return failingVaultRepository{r.RepoManager.VaultRepository()}
}

type failingVaultRepository struct {
	domain.VaultRepository
}

func (r failingVaultRepository) GetVault(
	_ context.Context, _ domain.Address,
) (*domain.VaultAccount, error) {
	return nil, errVaultStoreUnavailable
}

// **** Publisher ****

// recordingPublisher keeps track of the notified events. Only the methods
// used by the vault service are implemented.
type recordingPublisher struct {
	application.PubSubService

	lock            *sync.Mutex
	broadcastEvents []domain.Event
	publishedEvents []domain.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{lock: &sync.Mutex{}}
}

func (p *recordingPublisher) Broadcast(event domain.Event) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.broadcastEvents = append(p.broadcastEvents, event)
}

func (p *recordingPublisher) PublishEvent(event domain.Event) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.publishedEvents = append(p.publishedEvents, event)
	return nil
}

func (p *recordingPublisher) broadcasted() []domain.Event {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]domain.Event{}, p.broadcastEvents...)
}

func (p *recordingPublisher) published() []domain.Event {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]domain.Event{}, p.publishedEvents...)
}
