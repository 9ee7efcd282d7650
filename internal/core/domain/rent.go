package domain

import (
	"math"

	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

const (
	// AccountStorageOverhead is the number of bytes every account is charged
	// for on top of its data.
	AccountStorageOverhead = 128
	// DefaultLamportsPerByteYear ...
	DefaultLamportsPerByteYear = 3480
	// DefaultExemptionThreshold is the number of years of rent an account must
	// hold to be exempt.
	DefaultExemptionThreshold = 2
)

// Rent defines the minimum reserve the ledger requires each account to hold.
// Accounts below it are considered unusable.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  uint64
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

// MinimumBalance returns the reserve for an account carrying space bytes of
// data. The result saturates at math.MaxUint64, so that any amount added to
// an unrepresentable reserve overflows.
func (r Rent) MinimumBalance(space uint64) uint64 {
	bytes, ok := mathutil.CheckedAdd(space, AccountStorageOverhead)
	if !ok {
		return math.MaxUint64
	}
	perYear, ok := mathutil.CheckedMul(bytes, r.LamportsPerByteYear)
	if !ok {
		return math.MaxUint64
	}
	reserve, ok := mathutil.CheckedMul(perYear, r.ExemptionThreshold)
	if !ok {
		return math.MaxUint64
	}
	return reserve
}

// IsExempt returns whether an account with the given balance and data size
// satisfies the reserve.
func (r Rent) IsExempt(lamports, space uint64) bool {
	return lamports >= r.MinimumBalance(space)
}
