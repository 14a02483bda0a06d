package stream

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Dispatcher fans encoded payloads out from one source to many
// subscribers. A subscriber with a full buffer has payloads dropped
// rather than blocking the pipeline; drops are counted for monitoring.
type Dispatcher struct {
	source      <-chan []byte
	subscribers []chan []byte
	bufferSize  int
	mu          sync.Mutex
	dropped     atomic.Int64
}

// NewDispatcher creates a dispatcher reading from source.
func NewDispatcher(source <-chan []byte, bufferSize int) *Dispatcher {
	return &Dispatcher{
		source:     source,
		bufferSize: bufferSize,
	}
}

// Subscribe returns a channel receiving a copy of every payload.
// Subscribers should register before Run starts to see the whole stream.
func (d *Dispatcher) Subscribe() <-chan []byte {
	ch := make(chan []byte, d.bufferSize)
	d.mu.Lock()
	d.subscribers = append(d.subscribers, ch)
	d.mu.Unlock()
	return ch
}

// SubscriberCount returns the number of registered subscribers.
func (d *Dispatcher) SubscriberCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subscribers)
}

// DroppedCount returns the total payloads dropped across subscribers.
func (d *Dispatcher) DroppedCount() int64 {
	return d.dropped.Load()
}

// Run blocks until ctx is cancelled or the source closes, then closes
// every subscriber channel.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-d.source:
			if !ok {
				return
			}
			d.dispatch(ctx, payload)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, payload []byte) {
	d.mu.Lock()
	subs := d.subscribers
	d.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- payload:
		case <-ctx.Done():
			return
		default:
			dropped++
			d.dropped.Add(1)
		}
	}

	if dropped > 0 {
		log.Printf("Dispatcher: dropped payload for %d subscriber(s) (buffer full)", dropped)
	}
}

func (d *Dispatcher) closeSubscribers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.subscribers {
		close(sub)
	}
}
