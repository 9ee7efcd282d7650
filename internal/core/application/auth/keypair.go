package auth

import (
	"crypto/rand"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"go.dedis.ch/kyber/v3/sign/eddsa"
	"go.dedis.ch/kyber/v3/util/random"
)

// KeyPair is an ed25519 key pair whose public key is a ledger address.
type KeyPair struct {
	key *eddsa.EdDSA
}

// NewKeyPair generates a random key pair.
func NewKeyPair() *KeyPair {
	return &KeyPair{eddsa.NewEdDSA(random.New(rand.Reader))}
}

// KeyPairFromBytes restores a key pair from its serialized form.
func KeyPairFromBytes(buf []byte) (*KeyPair, error) {
	if len(buf) != 64 {
		return nil, ErrInvalidKey
	}
	key := &eddsa.EdDSA{}
	if err := key.UnmarshalBinary(buf); err != nil {
		return nil, ErrInvalidKey
	}
	return &KeyPair{key}, nil
}

// Bytes returns the seed followed by the public key.
func (k *KeyPair) Bytes() []byte {
	buf, _ := k.key.MarshalBinary()
	return buf
}

func (k *KeyPair) Address() domain.Address {
	buf, _ := k.key.Public.MarshalBinary()
	addr, _ := domain.AddressFromBytes(buf)
	return addr
}

func (k *KeyPair) Sign(msg []byte) ([]byte, error) {
	return k.key.Sign(msg)
}

// SignInstruction signs the message authorizing the given instruction of the
// program.
func (k *KeyPair) SignInstruction(
	programID domain.Address, instruction string, target domain.Address,
	amount uint64, timestamp int64,
) ([]byte, error) {
	return k.Sign(
		InstructionMessage(programID, instruction, target, amount, timestamp),
	)
}
