package auth

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"go.dedis.ch/kyber/v3/group/edwards25519"
	"go.dedis.ch/kyber/v3/sign/eddsa"
)

const (
	DefaultMaxAge    = 2 * time.Minute
	DefaultCacheSize = 10000
)

var suite = edwards25519.NewBlakeSHA256Ed25519()

// Service authenticates the caller of an instruction by verifying the
// ed25519 signature of the instruction message. Each signature is accepted
// once, and only while its timestamp is within maxAge from now.
//
// Used signatures are stored in the signature repository until they expire.
// The lru cache only spares a lookup for the most recent ones.
type Service struct {
	programID  domain.Address
	signatures domain.SignatureRepository
	recent     *lru.Cache
	maxAge     time.Duration
	now        func() time.Time
}

func NewService(
	programID domain.Address, signatures domain.SignatureRepository,
	cacheSize int, maxAge time.Duration,
) (*Service, error) {
	if signatures == nil {
		return nil, ErrMissingSignatureRepository
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{programID, signatures, cache, maxAge, time.Now}, nil
}

// VerifyInstruction makes sure the instruction was signed by signer for this
// program.
func (s *Service) VerifyInstruction(
	ctx context.Context, signer domain.Address, instruction string,
	target domain.Address, amount uint64, timestamp int64, signature []byte,
) error {
	signedAt := time.Unix(timestamp, 0)
	if age := s.now().Sub(signedAt); age > s.maxAge || age < -s.maxAge {
		return fmt.Errorf("%w: signed at %s", ErrSignatureExpired, signedAt.UTC())
	}

	msg := InstructionMessage(s.programID, instruction, target, amount, timestamp)
	if err := Verify(signer, msg, signature); err != nil {
		return err
	}

	return s.markUsed(ctx, signature, signedAt.Add(s.maxAge))
}

// markUsed fails if the signature was already used, otherwise it's stored
// until expiresAt.
func (s *Service) markUsed(
	ctx context.Context, signature []byte, expiresAt time.Time,
) error {
	key := hex.EncodeToString(signature)
	if s.recent.Contains(key) {
		return ErrSignatureReplayed
	}

	added, err := s.signatures.AddSignature(ctx, signature, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store used signature: %w", err)
	}
	if !added {
		return ErrSignatureReplayed
	}

	s.recent.Add(key, expiresAt)
	return nil
}

// Verify checks the ed25519 signature of msg against the signer address.
func Verify(signer domain.Address, msg, signature []byte) error {
	pubkey := suite.Point()
	if err := pubkey.UnmarshalBinary(signer[:]); err != nil {
		return ErrInvalidSigner
	}
	if err := eddsa.Verify(pubkey, msg, signature); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return nil
}
