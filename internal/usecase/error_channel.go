package usecase

import (
	"sync"

	"github.com/drinkbook/client/internal/events"
	"go.uber.org/zap"
)

// Global error messages shown by the notification banner
const (
	MsgFetchDrinksFailed    = "Error fetching drinks"
	MsgAddDrinkFailed       = "Error adding drink"
	MsgToggleFavoriteFailed = "Error toggling favorite"
	MsgRandomDrinkFailed    = "Error fetching random drink"
)

// ErrorChannel is the process-wide single-slot error surface. The newest
// message always wins; there is no queue.
//
// Every Set and every Clear that empties a non-empty slot is published on
// events.TopicErrorChanged, and displays redisplay on each event.
type ErrorChannel struct {
	mu      sync.RWMutex
	message string
	broker  *events.Broker
	log     *zap.Logger
}

// NewErrorChannel creates an empty error channel publishing on broker
func NewErrorChannel(broker *events.Broker, log *zap.Logger) *ErrorChannel {
	if log == nil {
		log = zap.NewNop()
	}
	if broker == nil {
		broker = events.NewBroker()
	}
	return &ErrorChannel{broker: broker, log: log.Named("errors")}
}

// Set overwrites the current message
func (e *ErrorChannel) Set(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.message = message
	e.log.Info("global error set", zap.String("message", message))
	e.publish(message)
}

// Clear empties the slot
func (e *ErrorChannel) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.message == "" {
		return
	}
	e.message = ""
	e.publish("")
}

// Current returns the current message, "" when empty
func (e *ErrorChannel) Current() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.message
}

// Subscribe returns a subscription receiving every change of the slot.
// Callers release it with Unsubscribe.
func (e *ErrorChannel) Subscribe() *events.Subscription {
	return e.broker.Subscribe(events.TopicErrorChanged)
}

// Unsubscribe releases a subscription obtained from Subscribe
func (e *ErrorChannel) Unsubscribe(sub *events.Subscription) {
	e.broker.Unsubscribe(sub)
}

// publish must be called with e.mu held so events arrive in slot order
func (e *ErrorChannel) publish(message string) {
	e.broker.Publish(events.TopicErrorChanged, message)
}
