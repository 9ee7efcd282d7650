package mathutil

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

const (
	// SolPrecision is the number of decimals of one SOL expressed in lamports.
	SolPrecision = 9
)

var (
	// LamportsPerSol represents a single SOL in lamports.
	LamportsPerSol = uint64(math.Pow10(SolPrecision))
	// LamportsPerSolDecimal is LamportsPerSol as decimal.Decimal
	LamportsPerSolDecimal = decimal.NewFromInt(int64(LamportsPerSol))
)

// CheckedAdd returns x + y and whether the sum fits into an uint64.
func CheckedAdd(x, y uint64) (uint64, bool) {
	sum, carry := bits.Add64(x, y, 0)
	return sum, carry == 0
}

// CheckedSub returns x - y and whether the difference is non negative.
func CheckedSub(x, y uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(x, y, 0)
	return diff, borrow == 0
}

// CheckedMul returns x * y and whether the product fits into an uint64.
func CheckedMul(x, y uint64) (uint64, bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi == 0
}

// LamportsToSol converts an amount of lamports into SOL.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(
		new(big.Int).SetUint64(lamports), 0,
	).Div(LamportsPerSolDecimal)
}

// SolToLamports converts an amount of SOL into lamports, truncating any
// fraction below one lamport. Returns false for negative amounts or if the
// result does not fit into an uint64.
func SolToLamports(sol decimal.Decimal) (uint64, bool) {
	if sol.IsNegative() {
		return 0, false
	}
	lamports := sol.Mul(LamportsPerSolDecimal).Truncate(0).BigInt()
	if !lamports.IsUint64() {
		return 0, false
	}
	return lamports.Uint64(), true
}

// FormatSol returns the SOL representation of the given lamports without
// trailing zeros.
func FormatSol(lamports uint64) string {
	return LamportsToSol(lamports).String()
}
