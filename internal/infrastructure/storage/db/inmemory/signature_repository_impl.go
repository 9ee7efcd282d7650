package inmemory

import (
	"context"
	"time"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type signatureRepositoryImpl struct {
	store *store
	now   func() time.Time
}

// NewSignatureRepositoryImpl returns a new in memory
// domain.SignatureRepository. Signatures are not part of any transaction.
func NewSignatureRepositoryImpl(s *store) domain.SignatureRepository {
	return &signatureRepositoryImpl{s, time.Now}
}

func (r *signatureRepositoryImpl) AddSignature(
	_ context.Context, signature []byte, expiresAt time.Time,
) (bool, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	now := r.now()
	for key, expiry := range r.store.signatures {
		if now.After(expiry) {
			delete(r.store.signatures, key)
		}
	}

	key := string(signature)
	if _, ok := r.store.signatures[key]; ok {
		return false, nil
	}
	r.store.signatures[key] = expiresAt
	return true, nil
}
