package domain

import (
	"crypto/sha256"
	"fmt"
	"math"

	"go.dedis.ch/kyber/v3/group/edwards25519"
)

const (
	// VaultSeed is the namespace tag of every vault address.
	VaultSeed = "vault"
	// MaxSeedLength is the maximum length of a single derivation seed.
	MaxSeedLength = 32
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16

	derivedAddressMarker = "ProgramDerivedAddress"
)

var curve = edwards25519.NewBlakeSHA256Ed25519()

// AddressResolver computes and verifies the addresses derived for a program.
// A derived address is sha256(seeds || programID || marker) and must not be a
// valid ed25519 point, so that nobody can hold a private key for it.
type AddressResolver struct {
	programID Address
}

func NewAddressResolver(programID Address) (*AddressResolver, error) {
	if programID.IsZero() {
		return nil, ErrMissingProgramID
	}
	return &AddressResolver{programID}, nil
}

func (r *AddressResolver) ProgramID() Address {
	return r.programID
}

// CreateAddress hashes the given seeds with the program id. It fails with
// ErrInvalidSeeds if the result lies on the ed25519 curve.
func (r *AddressResolver) CreateAddress(seeds ...[]byte) (Address, error) {
	var addr Address
	if len(seeds) > MaxSeeds {
		return addr, fmt.Errorf("%w: too many seeds", ErrInvalidSeeds)
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return addr, fmt.Errorf("%w: seed exceeds %d bytes", ErrInvalidSeeds, MaxSeedLength)
		}
		h.Write(seed)
	}
	h.Write(r.programID[:])
	h.Write([]byte(derivedAddressMarker))
	copy(addr[:], h.Sum(nil))

	if IsOnCurve(addr) {
		return Address{}, ErrInvalidSeeds
	}
	return addr, nil
}

// FindAddress looks for the canonical bump, starting from 255 and going down,
// for which the seeds produce a valid derived address.
func (r *AddressResolver) FindAddress(seeds ...[]byte) (Address, uint8, error) {
	withBump := append(append([][]byte{}, seeds...), nil)
	for bump := math.MaxUint8; bump >= 0; bump-- {
		withBump[len(withBump)-1] = []byte{uint8(bump)}
		addr, err := r.CreateAddress(withBump...)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if err != ErrInvalidSeeds {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, ErrBumpNotFound
}

// DeriveVaultAddress is the deterministic derivation of the vault owned by the
// given authority for the given bump.
func (r *AddressResolver) DeriveVaultAddress(
	authority Address, bump uint8,
) (Address, error) {
	return r.CreateAddress([]byte(VaultSeed), authority[:], []byte{bump})
}

// FindVaultAddress returns the canonical vault address and bump for the
// given authority.
func (r *AddressResolver) FindVaultAddress(authority Address) (Address, uint8, error) {
	return r.FindAddress([]byte(VaultSeed), authority[:])
}

// VerifyVaultAddress recomputes the vault address from its authority and
// bump and fails with ErrAddressMismatch if it differs from the supplied one.
func (r *AddressResolver) VerifyVaultAddress(
	supplied, authority Address, bump uint8,
) error {
	addr, err := r.DeriveVaultAddress(authority, bump)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAddressMismatch, err)
	}
	if !addr.Equal(supplied) {
		return ErrAddressMismatch
	}
	return nil
}

// IsOnCurve returns whether the given address decodes to an ed25519 point.
func IsOnCurve(addr Address) bool {
	return curve.Point().UnmarshalBinary(addr[:]) == nil
}
