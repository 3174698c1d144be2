package events

import "sync"

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 256

// Bus is a simple pub-sub for invocation events. Publish never blocks: a
// subscriber that falls behind misses events rather than stalling the child's
// output readers.
type Bus struct {
	mu     sync.Mutex
	subs   []chan any
	buffer int
	closed bool
}

func NewBus() *Bus {
	return &Bus{buffer: DefaultBuffer}
}

// NewBusWithBuffer returns a Bus whose subscriptions hold up to n events.
func NewBusWithBuffer(n int) *Bus {
	if n <= 0 {
		n = DefaultBuffer
	}
	return &Bus{buffer: n}
}

func (b *Bus) Subscribe() <-chan any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan any)
		close(ch)
		return ch
	}
	if b.buffer <= 0 {
		b.buffer = DefaultBuffer
	}
	ch := make(chan any, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(evt any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.closed = true
}
