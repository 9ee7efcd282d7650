package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

const listenerBufferSize = 100

type Service struct {
	pubsub ports.PubSub

	lock           *sync.RWMutex
	listeners      map[int]chan domain.Event
	nextListenerID int
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{
		pubsub:    pubsub,
		lock:      &sync.RWMutex{},
		listeners: make(map[int]chan domain.Event),
	}
}

func (s *Service) PubSub() ports.PubSub {
	return s.pubsub
}

func (s *Service) AddWebhook(
	_ context.Context, webhook ports.Webhook,
) (string, error) {
	if s.pubsub == nil {
		return "", ErrPubSubDisabled
	}
	topic, err := topicForEvent(webhook.GetEvent())
	if err != nil {
		return "", err
	}
	if topic == ports.UnspecifiedTopic {
		return "", ErrInvalidWebhookEvent
	}
	return s.pubsub.Subscribe(topic, webhook.GetEndpoint(), webhook.GetSecret())
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	if s.pubsub == nil {
		return ErrPubSubDisabled
	}
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]ports.WebhookInfo, error) {
	if s.pubsub == nil {
		return nil, ErrPubSubDisabled
	}
	topic, err := topicForEvent(event)
	if err != nil {
		return nil, err
	}
	subs := s.pubsub.ListSubscriptionsForTopic(topic)
	webhooks := make([]ports.WebhookInfo, 0, len(subs))
	for _, s := range subs {
		webhooks = append(webhooks, webhookInfo{s})
	}
	return webhooks, nil
}

// PublishEvent notifies the audit event to the webhooks subscribed for its
// type.
func (s *Service) PublishEvent(event domain.Event) error {
	if s.pubsub == nil {
		return nil
	}
	message, err := json.Marshal(getEventPayload(event))
	if err != nil {
		return err
	}
	return s.pubsub.Publish(string(event.Type), string(message))
}

// Listen registers a live listener of the published events. Events are
// dropped for a listener that does not keep up. The returned func must be
// called to stop listening.
func (s *Service) Listen() (<-chan domain.Event, func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextListenerID
	s.nextListenerID++
	ch := make(chan domain.Event, listenerBufferSize)
	s.listeners[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.lock.Lock()
			defer s.lock.Unlock()
			// the channel is already closed if the service was closed
			if _, ok := s.listeners[id]; ok {
				delete(s.listeners, id)
				close(ch)
			}
		})
	}
}

func (s *Service) Close() {
	s.lock.Lock()
	for id, ch := range s.listeners {
		delete(s.listeners, id)
		close(ch)
	}
	s.lock.Unlock()

	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			log.WithError(err).Warn("pubsub: failed to close store")
		}
	}
}

// Broadcast hands the audit event to every live listener without blocking.
func (s *Service) Broadcast(event domain.Event) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for id, ch := range s.listeners {
		select {
		case ch <- event:
		default:
			log.Warnf(
				"pubsub: listener %d is too slow, dropped event %d", id, event.Sequence,
			)
		}
	}
}

func topicForEvent(event string) (string, error) {
	if event == ports.AnyTopic {
		return ports.AnyTopic, nil
	}
	eventType, err := domain.ParseEventType(event)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidWebhookEvent, event)
	}
	return string(eventType), nil
}
