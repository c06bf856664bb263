package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is a committed state change. Payload is one of the payload types
// below.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TransferSettled struct {
	Hash   string `json:"hash"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type RequestChanged struct {
	RequestID    string `json:"request_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	TransferHash string `json:"transfer_hash,omitempty"`
}

type SplitChanged struct {
	SplitID   string `json:"split_id"`
	CreatedBy string `json:"created_by"`
	Status    string `json:"status"`
}

type AgreementChanged struct {
	AgreementID  string    `json:"agreement_id"`
	User         string    `json:"user"`
	Company      string    `json:"company"`
	Status       string    `json:"status"`
	MonthsPaid   int       `json:"months_paid"`
	Months       int       `json:"months"`
	NextDue      time.Time `json:"next_due"`
	TransferHash string    `json:"transfer_hash,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Handler func(ctx context.Context, event Event) error

// Bus delivers events synchronously to in-process subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish runs every handler of the event type, even after one fails.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			logrus.WithFields(logrus.Fields{
				"event":  event.Type,
				"entity": event.EntityID,
				"error":  err.Error(),
			}).Warn("Event handler failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fanout publishes to every publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
