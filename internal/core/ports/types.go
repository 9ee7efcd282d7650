package ports

type Webhook interface {
	GetEvent() string
	GetEndpoint() string
	GetSecret() string
}

type WebhookInfo interface {
	GetId() string
	GetEvent() string
	GetEndpoint() string
	IsSecured() bool
}

// VaultInfo is the read model of a vault along with its ledger balances.
type VaultInfo interface {
	GetAddress() string
	GetAuthority() string
	GetBump() uint8
	IsLocked() bool
	GetBalance() uint64
	GetMinimumReserve() uint64
	// GetSpendable returns the amount that can be withdrawn without going
	// below the minimum reserve.
	GetSpendable() uint64
}

// AccountInfo is the read model of a ledger account.
type AccountInfo interface {
	GetAddress() string
	GetBalance() uint64
	GetMinimumReserve() uint64
	GetSpace() uint64
}

type BuildData interface {
	GetVersion() string
	GetCommit() string
	GetDate() string
}
