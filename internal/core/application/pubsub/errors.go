package pubsub

import "errors"

var (
	// ErrInvalidWebhookEvent ...
	ErrInvalidWebhookEvent = errors.New("invalid webhook event type")
	// ErrPubSubDisabled is returned when managing webhooks without a pubsub
	// backend.
	ErrPubSubDisabled = errors.New("webhooks are disabled")
)
