// Package events is the in-process notification bus between the catalog
// components and whatever is displaying them.
package events

import "sync"

// Topics published by the catalog.
const (
	// TopicDrinksUpdated carries a []domain.Recipe snapshot after every
	// change to the store's collection.
	TopicDrinksUpdated = "drinks:updated"
	// TopicErrorChanged carries the current global error message ("" when cleared).
	TopicErrorChanged = "error:changed"
)

// Event represents a message passed through the broker.
type Event struct {
	Topic string
	Data  any
}

// Subscription is a handle returned by Subscribe.
type Subscription struct {
	topic string
	ch    chan Event
}

// C returns the channel events are delivered on.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Broker implements a simple in-memory pub/sub system.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]*Subscription
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]*Subscription),
	}
}

// Subscribe creates a new subscription to a topic.
// Events are delivered on a channel with a buffer of one; a subscriber that
// falls behind only misses intermediate events, never the fact that
// something changed.
func (b *Broker) Subscribe(topic string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{topic: topic, ch: make(chan Event, 1)}
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	return sub
}

// Unsubscribe removes the subscription. The channel is not closed so a
// concurrent reader never sees a spurious zero event.
func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[sub.topic]
	for i, s := range subs {
		if s == sub {
			b.subscribers[sub.topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[sub.topic]) == 0 {
		delete(b.subscribers, sub.topic)
	}
}

// Publish sends an event to all subscribers of a topic.
func (b *Broker) Publish(topic string, data any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{Topic: topic, Data: data}
	for _, sub := range b.subscribers[topic] {
		// Non-blocking send
		select {
		case sub.ch <- event:
		default:
			// Full buffer: replace the stale pending event with the newest one.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- event:
			default:
			}
		}
	}
}
