package domain

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressLength is the size in bytes of any ledger address. Addresses are
// either ed25519 public keys or program derived addresses.
const AddressLength = 32

// Address identifies an account on the ledger. Its textual form is base58.
type Address [AddressLength]byte

// ParseAddress decodes a base58 encoded address.
func ParseAddress(str string) (Address, error) {
	var addr Address
	if len(str) <= 0 {
		return addr, ErrInvalidAddress
	}
	buf := base58.Decode(str)
	if len(buf) != AddressLength {
		return addr, fmt.Errorf(
			"%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(buf),
		)
	}
	copy(addr[:], buf)
	return addr, nil
}

// AddressFromBytes returns an Address from its raw representation.
func AddressFromBytes(buf []byte) (Address, error) {
	var addr Address
	if len(buf) != AddressLength {
		return addr, fmt.Errorf(
			"%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(buf),
		)
	}
	copy(addr[:], buf)
	return addr, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return append([]byte{}, a[:]...)
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
