package pubsub

import (
	"time"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
)

func getEventPayload(event domain.Event) map[string]interface{} {
	payload := map[string]interface{}{
		"event":     event.Type,
		"sequence":  event.Sequence,
		"vault":     event.Vault.String(),
		"timestamp": event.Timestamp,
		"date":      time.Unix(event.Timestamp, 0).UTC().Format(time.RFC3339),
		"data":      event.Data,
	}

	record, err := event.Record()
	if err != nil {
		return payload
	}
	switch r := record.(type) {
	case domain.DepositEvent:
		payload["amount_sol"] = mathutil.FormatSol(r.Amount)
	case domain.WithdrawEvent:
		payload["amount_sol"] = mathutil.FormatSol(r.Amount)
	}
	return payload
}

type webhookInfo struct {
	ports.Subscription
}

func (i webhookInfo) GetId() string {
	return i.Id()
}

func (i webhookInfo) GetEvent() string {
	return i.Topic()
}

func (i webhookInfo) GetEndpoint() string {
	return i.NotifyAt()
}
