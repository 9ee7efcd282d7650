package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventVaultInitialized EventType = "VAULT_INITIALIZED"
	EventVaultDeposit     EventType = "VAULT_DEPOSIT"
	EventVaultWithdraw    EventType = "VAULT_WITHDRAW"
	EventVaultLockChanged EventType = "VAULT_LOCK_CHANGED"
	EventUnspecified      EventType = ""
	eventTypeAny          EventType = "*"
)

// Record is the payload of an audit event.
type Record interface {
	EventType() EventType
	VaultAddress() Address
}

// DepositEvent records lamports moved from a payer into a vault.
type DepositEvent struct {
	Amount uint64  `json:"amount"`
	Payer  Address `json:"payer"`
	Vault  Address `json:"vault"`
}

func (e DepositEvent) EventType() EventType  { return EventVaultDeposit }
func (e DepositEvent) VaultAddress() Address { return e.Vault }

// WithdrawEvent records lamports moved from a vault to its authority.
type WithdrawEvent struct {
	Amount    uint64  `json:"amount"`
	Authority Address `json:"authority"`
	Vault     Address `json:"vault"`
}

func (e WithdrawEvent) EventType() EventType  { return EventVaultWithdraw }
func (e WithdrawEvent) VaultAddress() Address { return e.Vault }

type VaultInitializedEvent struct {
	Authority Address `json:"authority"`
	Vault     Address `json:"vault"`
	Bump      uint8   `json:"bump"`
	Reserve   uint64  `json:"reserve"`
}

func (e VaultInitializedEvent) EventType() EventType  { return EventVaultInitialized }
func (e VaultInitializedEvent) VaultAddress() Address { return e.Vault }

type VaultLockChangedEvent struct {
	Authority Address `json:"authority"`
	Vault     Address `json:"vault"`
	Locked    bool    `json:"locked"`
}

func (e VaultLockChangedEvent) EventType() EventType  { return EventVaultLockChanged }
func (e VaultLockChangedEvent) VaultAddress() Address { return e.Vault }

// Event is an entry of the append-only audit log. Sequence is assigned by the
// log when the event is appended and is strictly increasing.
type Event struct {
	Sequence  uint64          `json:"sequence"`
	Type      EventType       `json:"type"`
	Vault     Address         `json:"vault"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps the given record into an event yet to be appended.
func NewEvent(record Record) (*Event, error) {
	if record == nil {
		return nil, ErrNullRecord
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      record.EventType(),
		Vault:     record.VaultAddress(),
		Timestamp: time.Now().Unix(),
		Data:      data,
	}, nil
}

// Record decodes the event payload into its typed shape.
func (e *Event) Record() (Record, error) {
	var record Record
	switch e.Type {
	case EventVaultDeposit:
		r := DepositEvent{}
		if err := json.Unmarshal(e.Data, &r); err != nil {
			return nil, err
		}
		record = r
	case EventVaultWithdraw:
		r := WithdrawEvent{}
		if err := json.Unmarshal(e.Data, &r); err != nil {
			return nil, err
		}
		record = r
	case EventVaultInitialized:
		r := VaultInitializedEvent{}
		if err := json.Unmarshal(e.Data, &r); err != nil {
			return nil, err
		}
		record = r
	case EventVaultLockChanged:
		r := VaultLockChangedEvent{}
		if err := json.Unmarshal(e.Data, &r); err != nil {
			return nil, err
		}
		record = r
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, e.Type)
	}
	return record, nil
}

// ParseEventType validates the textual form of an event type. The empty
// string and "*" both select every type.
func ParseEventType(str string) (EventType, error) {
	t := EventType(str)
	switch t {
	case EventVaultInitialized, EventVaultDeposit, EventVaultWithdraw,
		EventVaultLockChanged:
		return t, nil
	case EventUnspecified, eventTypeAny:
		return EventUnspecified, nil
	default:
		return EventUnspecified, fmt.Errorf("%w: %s", ErrUnknownEventType, str)
	}
}

// AllEventTypes returns every concrete event type.
func AllEventTypes() []EventType {
	return []EventType{
		EventVaultInitialized, EventVaultDeposit, EventVaultWithdraw,
		EventVaultLockChanged,
	}
}
