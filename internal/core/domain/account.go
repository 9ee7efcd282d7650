package domain

// Account is the ledger's record of a balance. Space is the size of the data
// the account carries, which determines its minimum reserve.
type Account struct {
	Address  Address
	Lamports uint64
	Space    uint64
}

// NewAccount returns an empty account with no data.
func NewAccount(addr Address) *Account {
	return &Account{Address: addr}
}

// IsZero returns whether the account has never been funded nor allocated.
func (a *Account) IsZero() bool {
	return a.Lamports == 0 && a.Space == 0
}
