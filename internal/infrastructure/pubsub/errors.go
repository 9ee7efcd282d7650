package pubsub

import "errors"

var (
	// ErrNullStore specifies that a subscription store is required.
	ErrNullStore = errors.New("subscription store must not be null")
	// ErrMissingTopic ...
	ErrMissingTopic = errors.New("missing topic")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint, must be a valid URI")
	// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
	ErrSubscriptionNotFound = errors.New("webhook not found")
	// ErrStoreClosed ...
	ErrStoreClosed = errors.New("subscription store is closed")
)
