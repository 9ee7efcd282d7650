package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type eventRow struct {
	Sequence  uint64
	Type      string
	Vault     string `badgerhold:"index"`
	Timestamp int64
	Data      []byte
}

type eventRepositoryImpl struct {
	store     *badgerhold.Store
	sequencer *eventSequencer
}

// NewEventRepositoryImpl initialize a badger implementation of the
// domain.EventRepository
func NewEventRepositoryImpl(
	store *badgerhold.Store, sequencer *eventSequencer,
) domain.EventRepository {
	return eventRepositoryImpl{store, sequencer}
}

// AppendEvent adds the event to the pending ones of the running transaction,
// if any, that numbers them at commit. Otherwise the event is stored right
// away.
func (r eventRepositoryImpl) AppendEvent(
	ctx context.Context, event *domain.Event,
) error {
	if event == nil {
		return domain.ErrNullRecord
	}

	if tx, ok := ctx.Value(txKey{}).(*transaction); ok {
		if !tx.update {
			return badger.ErrReadOnlyTxn
		}
		tx.events = append(tx.events, event)
		return nil
	}

	r.sequencer.lock.Lock()
	defer r.sequencer.lock.Unlock()

	seq := r.sequencer.last + 1
	if err := r.store.Badger().Update(func(tx *badger.Txn) error {
		return insertEvent(r.store, tx, seq, event)
	}); err != nil {
		return err
	}
	event.Sequence = seq
	r.sequencer.last = seq
	return nil
}

func (r eventRepositoryImpl) GetAllEvents(
	ctx context.Context, page *domain.Page,
) ([]domain.Event, error) {
	query := badgerhold.Where("Sequence").Gt(uint64(0))
	return r.findEvents(ctx, query, page)
}

func (r eventRepositoryImpl) GetEventsForVault(
	ctx context.Context, vault domain.Address, page *domain.Page,
) ([]domain.Event, error) {
	query := badgerhold.Where("Vault").Eq(vault.String())
	return r.findEvents(ctx, query, page)
}

func (r eventRepositoryImpl) findEvents(
	ctx context.Context, query *badgerhold.Query, page *domain.Page,
) ([]domain.Event, error) {
	query = query.SortBy("Sequence")
	if page != nil {
		query = query.Skip(page.Offset()).Limit(page.Size)
	}

	var rows []eventRow
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &rows, query)
	}); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		vault, err := domain.ParseAddress(row.Vault)
		if err != nil {
			return nil, err
		}
		events = append(events, domain.Event{
			Sequence:  row.Sequence,
			Type:      domain.EventType(row.Type),
			Vault:     vault,
			Timestamp: row.Timestamp,
			Data:      row.Data,
		})
	}
	return events, nil
}

func insertEvent(
	store *badgerhold.Store, tx *badger.Txn, seq uint64, event *domain.Event,
) error {
	row := eventRow{
		Sequence:  seq,
		Type:      string(event.Type),
		Vault:     event.Vault.String(),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	}
	return store.TxInsert(tx, row.Sequence, row)
}

// lastEventSequence returns the number of the most recent stored event, 0 if
// there's none.
func lastEventSequence(store *badgerhold.Store) (uint64, error) {
	var row eventRow
	query := badgerhold.Where("Sequence").Gt(uint64(0)).
		SortBy("Sequence").Reverse()
	if err := store.FindOne(&row, query); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Sequence, nil
}
