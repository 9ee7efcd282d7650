package vault

import "github.com/tdex-network/tdex-vault/internal/core/domain"

type vaultInfo struct {
	vault   domain.VaultAccount
	balance uint64
	reserve uint64
}

func (i vaultInfo) GetAddress() string {
	return i.vault.Address.String()
}
func (i vaultInfo) GetAuthority() string {
	return i.vault.Authority.String()
}
func (i vaultInfo) GetBump() uint8 {
	return i.vault.Bump
}
func (i vaultInfo) IsLocked() bool {
	return i.vault.Locked
}
func (i vaultInfo) GetBalance() uint64 {
	return i.balance
}
func (i vaultInfo) GetMinimumReserve() uint64 {
	return i.reserve
}
func (i vaultInfo) GetSpendable() uint64 {
	if i.balance <= i.reserve {
		return 0
	}
	return i.balance - i.reserve
}

type accountInfo struct {
	account domain.Account
	reserve uint64
}

func (i accountInfo) GetAddress() string {
	return i.account.Address.String()
}
func (i accountInfo) GetBalance() uint64 {
	return i.account.Lamports
}
func (i accountInfo) GetMinimumReserve() uint64 {
	return i.reserve
}
func (i accountInfo) GetSpace() uint64 {
	return i.account.Space
}
