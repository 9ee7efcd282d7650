package ledger

import (
	"fmt"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type rentState int

const (
	rentStateUninitialized rentState = iota
	rentStateRentPaying
	rentStateRentExempt
)

func rentStateOf(rent domain.Rent, account *domain.Account) rentState {
	if account.Lamports == 0 {
		return rentStateUninitialized
	}
	if rent.IsExempt(account.Lamports, account.Space) {
		return rentStateRentExempt
	}
	return rentStateRentPaying
}

// checkRentTransition makes sure an account is never pushed below its minimum
// reserve. An account may end up empty or exempt. One that was already below
// the reserve can stay there only if its data is unchanged and it does not
// receive lamports.
func checkRentTransition(rent domain.Rent, pre, post *domain.Account) error {
	switch rentStateOf(rent, post) {
	case rentStateUninitialized, rentStateRentExempt:
		return nil
	}

	if rentStateOf(rent, pre) == rentStateRentPaying &&
		pre.Space == post.Space && post.Lamports <= pre.Lamports {
		return nil
	}

	return fmt.Errorf(
		"%w: account %s would hold %d lamports, minimum is %d",
		ErrInsufficientFundsForRent, post.Address,
		post.Lamports, rent.MinimumBalance(post.Space),
	)
}
