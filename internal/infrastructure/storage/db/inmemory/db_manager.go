package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

type txKey struct{}

type store struct {
	locker   *sync.RWMutex
	accounts map[domain.Address]domain.Account
	vaults   map[domain.Address]domain.VaultAccount
	events   []domain.Event
	lastSeq  uint64

	signatures map[string]time.Time
}

// transaction holds the writes made within RunTransaction until they are
// committed to the store all together.
type transaction struct {
	readOnly bool
	accounts map[domain.Address]domain.Account
	vaults   map[domain.Address]domain.VaultAccount
	events   []*domain.Event
}

type RepoManager struct {
	store *store

	accountRepository   domain.AccountRepository
	vaultRepository     domain.VaultRepository
	eventRepository     domain.EventRepository
	signatureRepository domain.SignatureRepository
}

func NewRepoManager() ports.RepoManager {
	s := &store{
		locker:   &sync.RWMutex{},
		accounts: make(map[domain.Address]domain.Account),
		vaults:   make(map[domain.Address]domain.VaultAccount),
		events:   make([]domain.Event, 0),

		signatures: make(map[string]time.Time),
	}

	return &RepoManager{
		store:               s,
		accountRepository:   NewAccountRepositoryImpl(s),
		vaultRepository:     NewVaultRepositoryImpl(s),
		eventRepository:     NewEventRepositoryImpl(s),
		signatureRepository: NewSignatureRepositoryImpl(s),
	}
}

func (r *RepoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *RepoManager) VaultRepository() domain.VaultRepository {
	return r.vaultRepository
}

func (r *RepoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *RepoManager) SignatureRepository() domain.SignatureRepository {
	return r.signatureRepository
}

func (r *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// nested calls join the running transaction
	if _, ok := ctx.Value(txKey{}).(*transaction); ok {
		return handler(ctx)
	}

	tx := &transaction{
		readOnly: readOnly,
		accounts: make(map[domain.Address]domain.Account),
		vaults:   make(map[domain.Address]domain.VaultAccount),
		events:   make([]*domain.Event, 0),
	}
	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}
	if !readOnly {
		r.store.commit(tx)
	}
	return res, nil
}

func (r *RepoManager) Close() {}

func (s *store) commit(tx *transaction) {
	s.locker.Lock()
	defer s.locker.Unlock()

	for addr, account := range tx.accounts {
		s.accounts[addr] = account
	}
	for addr, vault := range tx.vaults {
		s.vaults[addr] = vault
	}
	for _, event := range tx.events {
		s.lastSeq++
		event.Sequence = s.lastSeq
		s.events = append(s.events, *event)
	}
}

func txFromContext(ctx context.Context) (*transaction, error) {
	tx, ok := ctx.Value(txKey{}).(*transaction)
	if !ok {
		return nil, nil
	}
	if tx.readOnly {
		return tx, ErrReadOnlyTx
	}
	return tx, nil
}

func readTxFromContext(ctx context.Context) *transaction {
	tx, _ := ctx.Value(txKey{}).(*transaction)
	return tx
}
