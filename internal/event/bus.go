// Package event is the in-process pub/sub channel between the permission
// engine and whatever surfaces its decisions (CLI prompt, server, logs).
package event

import (
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Subscriber receives published events.
type Subscriber func(event Event)

type subscriberEntry struct {
	id uint64
	fn Subscriber
}

// Bus fans events out to subscribers. Direct calls preserve payload
// types; the watermill gochannel underneath is available for callers who
// want routing or a distributed backend later.
type Bus struct {
	mu          sync.RWMutex
	pubsub      *gochannel.GoChannel
	subscribers map[EventType][]subscriberEntry
	nextID      uint64
	closed      bool
}

var globalBus = NewBus()

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
		subscribers: make(map[EventType][]subscriberEntry),
	}
}

// Subscribe registers fn for one event type on the global bus and
// returns an unsubscribe function.
func Subscribe(eventType EventType, fn Subscriber) func() {
	return globalBus.Subscribe(eventType, fn)
}

func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	id := atomic.AddUint64(&b.nextID, 1)
	b.subscribers[eventType] = append(b.subscribers[eventType], subscriberEntry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[eventType]
		for i, entry := range subs {
			if entry.id == id {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers an event on the global bus, each subscriber in its own
// goroutine.
func Publish(event Event) {
	globalBus.Publish(event)
}

func (b *Bus) Publish(event Event) {
	for _, fn := range b.collect(event.Type) {
		go fn(event)
	}
}

// PublishSync delivers an event on the global bus in the caller's
// goroutine, returning after every subscriber ran.
func PublishSync(event Event) {
	globalBus.PublishSync(event)
}

func (b *Bus) PublishSync(event Event) {
	for _, fn := range b.collect(event.Type) {
		fn(event)
	}
}

func (b *Bus) collect(t EventType) []Subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	subs := make([]Subscriber, 0, len(b.subscribers[t]))
	for _, entry := range b.subscribers[t] {
		subs = append(subs, entry.fn)
	}
	return subs
}

// Close shuts the bus down; further publishes are dropped.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.subscribers = make(map[EventType][]subscriberEntry)
	b.mu.Unlock()
	return b.pubsub.Close()
}

// Reset replaces the global bus. Intended for tests.
func Reset() {
	old := globalBus
	globalBus = NewBus()
	_ = old.Close()
}

// PubSub exposes the underlying watermill channel of the global bus.
func PubSub() *gochannel.GoChannel {
	return globalBus.pubsub
}
