package dbbadger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const signatureKeyPrefix = "_sig:"

type signatureRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSignatureRepositoryImpl initialize a badger implementation of the
// domain.SignatureRepository. Signatures are stored with a TTL and badger
// drops them once expired.
func NewSignatureRepositoryImpl(
	store *badgerhold.Store,
) domain.SignatureRepository {
	return signatureRepositoryImpl{store}
}

func (r signatureRepositoryImpl) AddSignature(
	ctx context.Context, signature []byte, expiresAt time.Time,
) (bool, error) {
	key := append([]byte(signatureKeyPrefix), signature...)
	// badger expires entries with seconds precision
	ttl := time.Until(expiresAt) + time.Second
	if ttl < time.Second {
		ttl = time.Second
	}

	added := false
	err := withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		if _, err := tx.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		added = true
		return tx.SetEntry(badger.NewEntry(key, []byte{}).WithTTL(ttl))
	})
	if err != nil {
		// a concurrent transaction stored the same signature
		if errors.Is(err, badger.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return added, nil
}
