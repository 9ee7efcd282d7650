package pubsub

import (
	"errors"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// SubscriptionStore persists the webhook subscriptions of the pubsub
// service.
type SubscriptionStore interface {
	Add(sub Subscription) error
	Get(id string) (*Subscription, error)
	Remove(id string) error
	// ListForTopic returns the subscriptions for the given topic sorted by id.
	// The unspecified topic selects all of them.
	ListForTopic(topic string) ([]Subscription, error)
	Close() error
}

type subscriptionRow struct {
	ID       string
	Event    string `badgerhold:"index"`
	Endpoint string
	Secret   string
}

type badgerStore struct {
	store *badgerhold.Store
}

// NewBadgerStore opens (or creates if not exists) the badger database in
// the given dir dedicated to subscriptions.
func NewBadgerStore(dbDir string, logger badger.Logger) (SubscriptionStore, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if dbDir == "" {
		opts.InMemory = true
	}

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return &badgerStore{store}, nil
}

func (s *badgerStore) Add(sub Subscription) error {
	row := subscriptionRow(sub)
	if err := s.store.Insert(row.ID, row); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return nil
		}
		return err
	}
	return nil
}

func (s *badgerStore) Get(id string) (*Subscription, error) {
	var row subscriptionRow
	if err := s.store.Get(id, &row); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	sub := Subscription(row)
	return &sub, nil
}

func (s *badgerStore) Remove(id string) error {
	if err := s.store.Delete(id, subscriptionRow{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *badgerStore) ListForTopic(topic string) ([]Subscription, error) {
	var query *badgerhold.Query
	if topic != "" {
		query = badgerhold.Where("Event").Eq(topic)
	}

	var rows []subscriptionRow
	if err := s.store.Find(&rows, query); err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, Subscription(row))
	}
	sortSubscriptions(subs)
	return subs, nil
}

func (s *badgerStore) Close() error {
	return s.store.Close()
}

type inmemoryStore struct {
	lock *sync.RWMutex
	subs map[string]Subscription
}

// NewInmemoryStore returns a volatile SubscriptionStore.
func NewInmemoryStore() SubscriptionStore {
	return &inmemoryStore{
		lock: &sync.RWMutex{},
		subs: make(map[string]Subscription),
	}
}

func (s *inmemoryStore) Add(sub Subscription) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.subs[sub.ID]; !ok {
		s.subs[sub.ID] = sub
	}
	return nil
}

func (s *inmemoryStore) Get(id string) (*Subscription, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (s *inmemoryStore) Remove(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.subs[id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *inmemoryStore) ListForTopic(topic string) ([]Subscription, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	subs := make([]Subscription, 0)
	for _, sub := range s.subs {
		if topic == "" || sub.Event == topic {
			subs = append(subs, sub)
		}
	}
	sortSubscriptions(subs)
	return subs, nil
}

func (s *inmemoryStore) Close() error {
	return nil
}

func sortSubscriptions(subs []Subscription) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
}
