package application

import (
	"context"

	"github.com/tdex-network/tdex-vault/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

type PubSubService interface {
	AddWebhook(ctx context.Context, hook ports.Webhook) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, event string) ([]ports.WebhookInfo, error)
	PublishEvent(event domain.Event) error
	Broadcast(event domain.Event)
	Listen() (<-chan domain.Event, func())
	Close()
}

// NewPubSubService returns the service notifying audit events. A nil pubsub
// disables webhooks while keeping live listeners.
func NewPubSubService(pubsubSvc ports.PubSub) PubSubService {
	return pubsub.NewService(pubsubSvc)
}
