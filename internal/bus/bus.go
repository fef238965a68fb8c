// Package bus is the change-notification channel between pages. The
// original client used DOM CustomEvents on window for this; here it is
// an injectable publish/subscribe value so core logic can be tested
// without any UI attached.
package bus

import "sync"

// Topics used across the client.
const (
	TopicTasksChanged    = "tasks:changed"
	TopicProjectsChanged = "projects:changed"
)

// Handler receives the topic it subscribed to. Payloads are not carried:
// subscribers re-run their own reads rather than trusting push data.
type Handler func(topic string)

// Bus dispatches named change events synchronously, in subscription
// order, on the caller's goroutine. The client is single-threaded
// (one UI event loop), so there is no delivery queue.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]subscriber
	next int
}

type subscriber struct {
	id int
	fn Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers fn for topic and returns an unsubscribe func.
func (b *Bus) Subscribe(topic string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every handler subscribed to topic.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()
	for _, s := range list {
		s.fn(topic)
	}
}
