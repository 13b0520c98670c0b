package event_bus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

// Payload is implemented by the footprint payloads in events.go.
type Payload interface {
	EventType() EventType
}

// Event carries a payload together with the context of the request that produced it.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	if ctx == nil {
		ctx = context.Background()
	}
	return Event{ctx: ctx, Type: eventType, Timestamp: time.Now().UTC(), Data: data}
}

func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is an Event whose payload has already been asserted to T.
type EventT[T any] struct {
	Event
	Data T
}

type listener struct {
	id uint64
	fn func(Event) error
}

// EventBus delivers footprint events synchronously on the publishing goroutine.
// Listeners of one type run in the order they subscribed.
type EventBus struct {
	mu        sync.RWMutex
	listeners map[EventType][]listener
	seq       uint64
}

func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventType][]listener)}
}

// Subscribe adds fn for eventType. The returned func removes it again.
func (eb *EventBus) Subscribe(eventType EventType, fn func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.seq++
	id := eb.seq
	eb.listeners[eventType] = append(eb.listeners[eventType], listener{id: id, fn: fn})
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		remaining := slices.DeleteFunc(eb.listeners[eventType], func(l listener) bool { return l.id == id })
		if len(remaining) == 0 {
			delete(eb.listeners, eventType)
			return
		}
		eb.listeners[eventType] = remaining
	}
}

// SubscribeTyped adds fn for events of eventType whose payload is a T. Other payloads are skipped.
func SubscribeTyped[T any](eb *EventBus, eventType EventType, fn func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: %s carries %T, listener expects %T", eventType, e.Data, *new(T))
			return nil
		}
		return fn(EventT[T]{Event: e, Data: payload})
	})
}

// OnRecorded subscribes fn to stored footprint records.
func (eb *EventBus) OnRecorded(fn func(ctx context.Context, rec FootprintRecorded) error) (unsubscribe func()) {
	return SubscribeTyped[FootprintRecorded](eb, FootprintRecordedType, func(e EventT[FootprintRecorded]) error {
		return fn(e.Context(), e.Data)
	})
}

// OnDeleted subscribes fn to deleted footprint records.
func (eb *EventBus) OnDeleted(fn func(ctx context.Context, del FootprintDeleted) error) (unsubscribe func()) {
	return SubscribeTyped[FootprintDeleted](eb, FootprintDeletedType, func(e EventT[FootprintDeleted]) error {
		return fn(e.Context(), e.Data)
	})
}

// Emit publishes payload under its own event type.
func (eb *EventBus) Emit(ctx context.Context, payload Payload) error {
	return eb.Publish(NewEvent(ctx, payload.EventType(), payload))
}

// Publish runs every listener of e.Type and joins their errors. A panicking listener is
// reported as an error; a cancelled context stops delivery.
func (eb *EventBus) Publish(e Event) error {
	eb.mu.RLock()
	targets := slices.Clone(eb.listeners[e.Type])
	eb.mu.RUnlock()

	var errs []error
	for _, l := range targets {
		if err := e.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("event %s not delivered: %w", e.Type, err))
			break
		}
		if err := deliver(e, l); err != nil {
			log.Errorf("EventBus: listener %d failed on %s: %v", l.id, e.Type, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d listener(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

func deliver(e Event, l listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener %d panicked: %v", l.id, r)
		}
	}()
	return l.fn(e)
}
