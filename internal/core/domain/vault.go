package domain

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

const (
	// DiscriminatorLength is the size of the account type header.
	DiscriminatorLength = 8
	// VaultAccountSpace is the on-ledger size of a serialized VaultAccount:
	// header, authority, locked flag and bump.
	VaultAccountSpace = DiscriminatorLength + AddressLength + 1 + 1
)

// VaultDiscriminator prefixes every serialized VaultAccount.
var VaultDiscriminator = accountDiscriminator("Vault")

// VaultAccount is the persistent state of a vault. The balance is held by the
// ledger at Address and is never duplicated here.
type VaultAccount struct {
	Address   Address
	Authority Address
	Locked    bool
	Bump      uint8
}

// NewVaultAccount returns an unlocked vault bound to the given authority.
func NewVaultAccount(address, authority Address, bump uint8) (*VaultAccount, error) {
	if address.IsZero() {
		return nil, fmt.Errorf("%w: missing vault address", ErrInvalidAddress)
	}
	if authority.IsZero() {
		return nil, fmt.Errorf("%w: missing vault authority", ErrInvalidAddress)
	}
	return &VaultAccount{
		Address:   address,
		Authority: authority,
		Bump:      bump,
	}, nil
}

// IsLocked returns whether transfers are currently rejected.
func (v *VaultAccount) IsLocked() bool {
	return v.Locked
}

// AuthorityAddress returns the identity allowed to withdraw.
func (v *VaultAccount) AuthorityAddress() Address {
	return v.Authority
}

// IsAuthority returns whether the given address is the vault's authority.
func (v *VaultAccount) IsAuthority(addr Address) bool {
	return v.Authority.Equal(addr)
}

// Lock makes the vault reject any further transfer.
func (v *VaultAccount) Lock() {
	v.Locked = true
}

// Unlock re-enables transfers.
func (v *VaultAccount) Unlock() {
	v.Locked = false
}

// Serialize returns the on-ledger layout of the vault state.
func (v *VaultAccount) Serialize() []byte {
	buf := make([]byte, 0, VaultAccountSpace)
	buf = append(buf, VaultDiscriminator[:]...)
	buf = append(buf, v.Authority[:]...)
	locked := byte(0)
	if v.Locked {
		locked = 1
	}
	return append(buf, locked, v.Bump)
}

// DeserializeVaultAccount parses the on-ledger layout of the vault stored at
// the given address.
func DeserializeVaultAccount(address Address, data []byte) (*VaultAccount, error) {
	if len(data) != VaultAccountSpace {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d", ErrInvalidAccountData, VaultAccountSpace, len(data),
		)
	}
	if !bytes.Equal(data[:DiscriminatorLength], VaultDiscriminator[:]) {
		return nil, fmt.Errorf("%w: discriminator mismatch", ErrInvalidAccountData)
	}

	offset := DiscriminatorLength
	authority, _ := AddressFromBytes(data[offset : offset+AddressLength])
	offset += AddressLength

	var locked bool
	switch data[offset] {
	case 0:
	case 1:
		locked = true
	default:
		return nil, fmt.Errorf("%w: invalid locked flag", ErrInvalidAccountData)
	}

	return &VaultAccount{
		Address:   address,
		Authority: authority,
		Locked:    locked,
		Bump:      data[offset+1],
	}, nil
}

func accountDiscriminator(name string) (d [DiscriminatorLength]byte) {
	h := sha256.Sum256([]byte("account:" + name))
	copy(d[:], h[:DiscriminatorLength])
	return
}
