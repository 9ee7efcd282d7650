package ledger

import (
	"bytes"
	"sort"
	"sync"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// AccountLocker hands out exclusive locks on ledger accounts. Locks for
// multiple accounts are always taken in address order so that two
// instructions sharing accounts can never deadlock.
type AccountLocker struct {
	lock  *sync.Mutex
	locks map[domain.Address]*lockEntry
}

func NewAccountLocker() *AccountLocker {
	return &AccountLocker{
		lock:  &sync.Mutex{},
		locks: make(map[domain.Address]*lockEntry),
	}
}

// Lock blocks until every given account is locked. The returned func
// releases them all.
func (l *AccountLocker) Lock(accounts ...domain.Address) func() {
	addresses := dedup(accounts)
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})

	entries := make([]*lockEntry, 0, len(addresses))
	for _, addr := range addresses {
		entry := l.acquire(addr)
		entry.mu.Lock()
		entries = append(entries, entry)
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
			l.release(addresses[i])
		}
	}
}

func (l *AccountLocker) acquire(addr domain.Address) *lockEntry {
	l.lock.Lock()
	defer l.lock.Unlock()

	entry, ok := l.locks[addr]
	if !ok {
		entry = &lockEntry{}
		l.locks[addr] = entry
	}
	entry.refs++
	return entry
}

func (l *AccountLocker) release(addr domain.Address) {
	l.lock.Lock()
	defer l.lock.Unlock()

	entry, ok := l.locks[addr]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, addr)
	}
}

func dedup(accounts []domain.Address) []domain.Address {
	seen := make(map[domain.Address]struct{}, len(accounts))
	list := make([]domain.Address, 0, len(accounts))
	for _, addr := range accounts {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		list = append(list, addr)
	}
	return list
}
