package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Bus distributes run events to subscribers with optional filtering.
//
// All methods are safe for concurrent use. Publish never blocks on a slow
// subscriber: when a subscriber's buffer is full the event is dropped for
// that subscriber only.
type Bus interface {
	// Publish sends an event to all matching subscribers. It returns an
	// error only when the bus is closed.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a subscriber. Pass Filter{} to receive every
	// event and bufferSize 0 for the default buffer. The returned cleanup
	// function must be called to release the subscription.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	// Close shuts the bus down and closes all subscriber channels.
	Close() error
}

// DefaultBus implements Bus with per-subscriber buffered channels and
// non-blocking sends.
type DefaultBus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	options     *busOptions
	closed      bool
}

type subscription struct {
	id      string
	ch      chan Event
	filter  Filter
	ctx     context.Context
	cancel  context.CancelFunc
	dropped atomic.Int64
}

type busOptions struct {
	defaultBufferSize int
	dropHandler       DropHandler
}

// DropHandler is called when an event is dropped for a slow subscriber.
type DropHandler func(subscriberID string, event Event)

// Option configures a DefaultBus.
type Option func(*busOptions)

// WithDefaultBufferSize sets the buffer used when Subscribe is called with
// bufferSize 0. The default is 64.
func WithDefaultBufferSize(size int) Option {
	return func(opts *busOptions) {
		if size > 0 {
			opts.defaultBufferSize = size
		}
	}
}

// WithDropHandler sets the handler invoked for dropped events.
func WithDropHandler(handler DropHandler) Option {
	return func(opts *busOptions) {
		if handler != nil {
			opts.dropHandler = handler
		}
	}
}

// NewBus creates a DefaultBus.
func NewBus(opts ...Option) *DefaultBus {
	options := &busOptions{
		defaultBufferSize: 64,
		dropHandler:       func(string, Event) {},
	}
	for _, opt := range opts {
		opt(options)
	}
	return &DefaultBus{
		subscribers: make(map[string]*subscription),
		options:     options,
	}
}

func (b *DefaultBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus is closed")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, sub := range b.subscribers {
		select {
		case <-sub.ctx.Done():
			// Subscriber gone, cleaned up on unsubscribe.
			continue
		default:
		}

		if !sub.filter.Matches(event) {
			continue
		}

		select {
		case sub.ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			sub.dropped.Add(1)
			b.options.dropHandler(sub.id, event)
		}
	}
	return nil
}

func (b *DefaultBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if bufferSize <= 0 {
		bufferSize = b.options.defaultBufferSize
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		id:     nextSubscriberID(),
		ch:     make(chan Event, bufferSize),
		filter: filter,
		ctx:    subCtx,
		cancel: cancel,
	}
	b.subscribers[sub.id] = sub

	return sub.ch, func() { b.unsubscribe(sub.id) }
}

func (b *DefaultBus) unsubscribe(subscriberID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[subscriberID]
	if !ok {
		return
	}
	sub.cancel()
	close(sub.ch)
	delete(b.subscribers, subscriberID)
}

// Close is idempotent.
func (b *DefaultBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, sub := range b.subscribers {
		sub.cancel()
		close(sub.ch)
		delete(b.subscribers, id)
	}
	return nil
}

// SubscriberCount returns the number of active subscribers.
func (b *DefaultBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

var subscriberCounter atomic.Uint64

func nextSubscriberID() string {
	return fmt.Sprintf("sub-%d", subscriberCounter.Add(1))
}

var _ Bus = (*DefaultBus)(nil)
