package service

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
)

// Bus fans session events out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan domain.Event
	nextID uint64
	seq    atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan domain.Event)}
}

// Subscribe registers a subscriber. The returned cancel func closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan domain.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan domain.Event, max(buffer, 1))
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Publish stamps e with the next sequence number and delivers it.
func (b *Bus) Publish(e domain.Event) domain.Event {
	e.Seq = b.seq.Add(1)
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("search: subscriber too slow, event dropped", "subscriber", id, "seq", e.Seq, "kind", e.Kind)
		}
	}
	return e
}

// Subscribers returns the number of active subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
