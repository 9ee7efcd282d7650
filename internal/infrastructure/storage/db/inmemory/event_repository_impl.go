package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type eventRepositoryImpl struct {
	store *store
}

// NewEventRepositoryImpl returns a new in memory domain.EventRepository
func NewEventRepositoryImpl(s *store) domain.EventRepository {
	return &eventRepositoryImpl{s}
}

func (r *eventRepositoryImpl) AppendEvent(
	ctx context.Context, event *domain.Event,
) error {
	if event == nil {
		return domain.ErrNullRecord
	}
	tx, err := txFromContext(ctx)
	if err != nil {
		return err
	}

	// within a transaction the sequence is assigned at commit time
	if tx != nil {
		tx.events = append(tx.events, event)
		return nil
	}

	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.lastSeq++
	event.Sequence = r.store.lastSeq
	r.store.events = append(r.store.events, *event)
	return nil
}

func (r *eventRepositoryImpl) GetAllEvents(
	_ context.Context, page *domain.Page,
) ([]domain.Event, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return paginate(r.store.events, page), nil
}

func (r *eventRepositoryImpl) GetEventsForVault(
	_ context.Context, vault domain.Address, page *domain.Page,
) ([]domain.Event, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	events := make([]domain.Event, 0)
	for _, e := range r.store.events {
		if e.Vault == vault {
			events = append(events, e)
		}
	}
	return paginate(events, page), nil
}

func paginate(events []domain.Event, page *domain.Page) []domain.Event {
	if page == nil {
		return append([]domain.Event{}, events...)
	}

	from := page.Offset()
	if from >= len(events) {
		return []domain.Event{}
	}
	to := from + page.Size
	if to > len(events) {
		to = len(events)
	}
	return append([]domain.Event{}, events[from:to]...)
}
