package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	maxRetries = 10
	retryDelay = 10 * time.Millisecond
)

type txKey struct{}

// transaction wraps a badger transaction along with the events appended
// within it. Events get their sequence number only when committed.
type transaction struct {
	txn    *badger.Txn
	update bool
	events []*domain.Event
}

// eventSequencer hands out event sequence numbers in commit order. The
// counter is loaded from the last stored event at startup and is never read
// within a transaction.
type eventSequencer struct {
	lock *sync.Mutex
	last uint64
}

type repoManager struct {
	store     *badgerhold.Store
	sequencer *eventSequencer

	accountRepository   domain.AccountRepository
	vaultRepository     domain.VaultRepository
	eventRepository     domain.EventRepository
	signatureRepository domain.SignatureRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// An empty baseDbDir makes the store live in memory only.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening vault db: %w", err)
	}

	last, err := lastEventSequence(store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading event sequence: %w", err)
	}
	sequencer := &eventSequencer{lock: &sync.Mutex{}, last: last}

	return &repoManager{
		store:               store,
		sequencer:           sequencer,
		accountRepository:   NewAccountRepositoryImpl(store),
		vaultRepository:     NewVaultRepositoryImpl(store),
		eventRepository:     NewEventRepositoryImpl(store, sequencer),
		signatureRepository: NewSignatureRepositoryImpl(store),
	}, nil
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) VaultRepository() domain.VaultRepository {
	return r.vaultRepository
}

func (r *repoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *repoManager) SignatureRepository() domain.SignatureRepository {
	return r.signatureRepository
}

// RunTransaction runs the handler within a badger transaction that is stored
// in the ctx so that every repository makes use of it. The handler is run
// again from scratch if the commit conflicts with a concurrent transaction.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// nested calls join the running transaction
	if _, ok := ctx.Value(txKey{}).(*transaction); ok {
		return handler(ctx)
	}

	for i := 0; i < maxRetries; i++ {
		res, err := r.runTransaction(ctx, readOnly, handler)
		if err != nil {
			if errors.Is(err, badger.ErrConflict) {
				time.Sleep(retryBackoff(i))
				continue
			}
			return nil, err
		}
		return res, nil
	}
	return nil, ErrTxConflict
}

func (r *repoManager) Close() {
	r.store.Close()
}

func (r *repoManager) runTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (res interface{}, err error) {
	tx := &transaction{
		txn:    r.store.Badger().NewTransaction(!readOnly),
		update: !readOnly,
	}
	defer tx.txn.Discard()

	defer func() {
		// panicking discards the transaction
		if rec := recover(); rec != nil {
			res, err = nil, fmt.Errorf("recovered: %v", rec)
		}
	}()

	res, err = handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}
	if readOnly {
		return res, nil
	}
	if err := r.commit(tx); err != nil {
		return nil, err
	}
	return res, nil
}

// commit stores the pending events of tx, numbered after the last committed
// ones, and commits it. The sequencer lock is held until the commit
// completes so that numbers are neither skipped nor given out twice.
func (r *repoManager) commit(tx *transaction) error {
	if len(tx.events) <= 0 {
		return tx.txn.Commit()
	}

	r.sequencer.lock.Lock()
	defer r.sequencer.lock.Unlock()

	seq := r.sequencer.last
	for _, event := range tx.events {
		seq++
		if err := insertEvent(r.store, tx.txn, seq, event); err != nil {
			return err
		}
	}
	if err := tx.txn.Commit(); err != nil {
		return err
	}

	seq = r.sequencer.last
	for _, event := range tx.events {
		seq++
		event.Sequence = seq
	}
	r.sequencer.last = seq
	return nil
}

// retryBackoff grows linearly with the attempt and adds some jitter so that
// conflicting transactions don't retry in lockstep.
func retryBackoff(attempt int) time.Duration {
	delay := retryDelay * time.Duration(attempt+1)
	return delay + time.Duration(rand.Int63n(int64(retryDelay)))
}

// withTx runs fn with the transaction carried by ctx, if any, otherwise
// within a new dedicated one.
func withTx(
	ctx context.Context, store *badgerhold.Store, update bool,
	fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txKey{}).(*transaction); ok {
		return fn(tx.txn)
	}
	if update {
		return store.Badger().Update(fn)
	}
	return store.Badger().View(fn)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if dbDir == "" {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
