package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacearound404/planboard/internal/bus"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := bus.New()

	var got []string
	b.Subscribe(bus.TopicTasksChanged, func(topic string) {
		got = append(got, "first:"+topic)
	})
	b.Subscribe(bus.TopicTasksChanged, func(topic string) {
		got = append(got, "second:"+topic)
	})

	b.Publish(bus.TopicTasksChanged)
	assert.Equal(t, []string{"first:tasks:changed", "second:tasks:changed"}, got)
}

func TestTopicsAreIsolated(t *testing.T) {
	b := bus.New()

	calls := 0
	b.Subscribe(bus.TopicProjectsChanged, func(string) { calls++ })

	b.Publish(bus.TopicTasksChanged)
	assert.Zero(t, calls)

	b.Publish(bus.TopicProjectsChanged)
	assert.Equal(t, 1, calls)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := bus.New()

	calls := 0
	unsub := b.Subscribe(bus.TopicTasksChanged, func(string) { calls++ })

	b.Publish(bus.TopicTasksChanged)
	unsub()
	b.Publish(bus.TopicTasksChanged)

	assert.Equal(t, 1, calls)
}

func TestUnsubscribeTwiceIsHarmless(t *testing.T) {
	b := bus.New()
	unsub := b.Subscribe(bus.TopicTasksChanged, func(string) {})
	unsub()
	unsub()
	b.Publish(bus.TopicTasksChanged)
}

func TestPublishWithNoSubscribers(t *testing.T) {
	b := bus.New()
	b.Publish(bus.TopicTasksChanged)
}

// A handler may subscribe another handler without deadlocking: the
// subscriber list is copied before dispatch.
func TestSubscribeDuringPublish(t *testing.T) {
	b := bus.New()

	nested := 0
	b.Subscribe(bus.TopicTasksChanged, func(string) {
		b.Subscribe(bus.TopicTasksChanged, func(string) { nested++ })
	})

	b.Publish(bus.TopicTasksChanged)
	assert.Zero(t, nested)

	b.Publish(bus.TopicTasksChanged)
	assert.Equal(t, 1, nested)
}
