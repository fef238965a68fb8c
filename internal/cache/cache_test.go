package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacearound404/planboard/internal/cache"
	"github.com/spacearound404/planboard/internal/storage"
)

type memBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[string][]byte)}
}

func (b *memBackend) Get(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (b *memBackend) Put(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

// chanNotifier surfaces publishes on a channel so tests can wait for
// background revalidation.
type chanNotifier struct {
	ch chan string
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan string, 8)}
}

func (n *chanNotifier) Publish(topic string) {
	n.ch <- topic
}

func (n *chanNotifier) wait(t *testing.T) string {
	t.Helper()
	select {
	case topic := <-n.ch:
		return topic
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return ""
	}
}

func (n *chanNotifier) assertSilent(t *testing.T) {
	t.Helper()
	select {
	case topic := <-n.ch:
		t.Fatalf("unexpected notification on %q", topic)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestReadThroughMissFetchesAndCaches(t *testing.T) {
	kv := newMemBackend()
	n := newChanNotifier()
	s := cache.New(kv, n, nil)

	calls := 0
	got, err := cache.ReadThrough(context.Background(), s, "k", "topic",
		func(context.Context) ([]string, error) {
			calls++
			return []string{"a", "b"}, nil
		}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	// The miss path fetches in the foreground and publishes nothing.
	n.assertSilent(t)
	_, err = kv.Get("k")
	assert.NoError(t, err)
}

func TestReadThroughHitServesStaleAndRevalidates(t *testing.T) {
	kv := newMemBackend()
	n := newChanNotifier()
	s := cache.New(kv, n, nil)

	require.NoError(t, kv.Put("k", []byte(`["old"]`)))

	got, err := cache.ReadThrough(context.Background(), s, "k", "topic",
		func(context.Context) ([]string, error) {
			return []string{"new"}, nil
		}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, got, "cached value served before revalidation")

	assert.Equal(t, "topic", n.wait(t))

	raw, err := kv.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `["new"]`, string(raw))
}

func TestReadThroughUnchangedPublishesNothing(t *testing.T) {
	kv := newMemBackend()
	n := newChanNotifier()
	s := cache.New(kv, n, nil)

	require.NoError(t, kv.Put("k", []byte(`["same"]`)))

	fetched := make(chan struct{})
	_, err := cache.ReadThrough(context.Background(), s, "k", "topic",
		func(context.Context) ([]string, error) {
			defer close(fetched)
			return []string{"same"}, nil
		}, true)
	require.NoError(t, err)

	<-fetched
	n.assertSilent(t)
}

// A backend reordering JSON object keys is not a change.
func TestReadThroughStructuralComparison(t *testing.T) {
	kv := newMemBackend()
	n := newChanNotifier()
	s := cache.New(kv, n, nil)

	require.NoError(t, kv.Put("k", []byte(`{"a":1,"b":2}`)))

	fetched := make(chan struct{})
	_, err := cache.ReadThrough(context.Background(), s, "k", "topic",
		func(context.Context) (map[string]int, error) {
			defer close(fetched)
			return map[string]int{"b": 2, "a": 1}, nil
		}, true)
	require.NoError(t, err)

	<-fetched
	n.assertSilent(t)
}

func TestReadThroughRevalidateDisabled(t *testing.T) {
	kv := newMemBackend()
	n := newChanNotifier()
	s := cache.New(kv, n, nil)

	require.NoError(t, kv.Put("k", []byte(`["old"]`)))

	calls := 0
	got, err := cache.ReadThrough(context.Background(), s, "k", "topic",
		func(context.Context) ([]string, error) {
			calls++
			return []string{"new"}, nil
		}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, got)
	n.assertSilent(t)
	assert.Zero(t, calls)
}

func TestReadThroughMissPropagatesFetchError(t *testing.T) {
	s := cache.New(newMemBackend(), nil, nil)

	wantErr := errors.New("backend down")
	_, err := cache.ReadThrough(context.Background(), s, "k", "topic",
		func(context.Context) (int, error) { return 0, wantErr }, true)
	assert.ErrorIs(t, err, wantErr)
}

func TestReadThroughNilBackendAlwaysFetches(t *testing.T) {
	s := cache.New(nil, nil, nil)

	calls := 0
	for i := 0; i < 3; i++ {
		got, err := cache.ReadThrough(context.Background(), s, "k", "topic",
			func(context.Context) (int, error) {
				calls++
				return 42, nil
			}, true)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	}
	assert.Equal(t, 3, calls)
}

func TestRefreshPublishesOnChangeOnly(t *testing.T) {
	kv := newMemBackend()
	n := newChanNotifier()
	s := cache.New(kv, n, nil)

	got, err := cache.Refresh(context.Background(), s, "k", "topic",
		func(context.Context) ([]int, error) { return []int{1}, nil })
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, "topic", n.wait(t), "first write is a change")

	_, err = cache.Refresh(context.Background(), s, "k", "topic",
		func(context.Context) ([]int, error) { return []int{1}, nil })
	require.NoError(t, err)
	n.assertSilent(t)

	_, err = cache.Refresh(context.Background(), s, "k", "topic",
		func(context.Context) ([]int, error) { return []int{2}, nil })
	require.NoError(t, err)
	assert.Equal(t, "topic", n.wait(t))
}

func TestKeysAreDistinctPerFilter(t *testing.T) {
	p1, p2 := 1, 2
	keys := []string{
		cache.TasksKey(nil, ""),
		cache.TasksKey(&p1, ""),
		cache.TasksKey(&p2, ""),
		cache.TasksKey(&p1, "2026-08-10"),
		cache.TasksKey(nil, "2026-08-10"),
		cache.EventsKey("2026-08-10", "2026-08-10"),
		cache.EventsKey("2026-08-10", "2026-08-11"),
		cache.EventsKey("", ""),
		cache.ProjectsKey(),
		cache.SettingsKey(),
	}
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestTasksKeyShape(t *testing.T) {
	pid := 3
	assert.Equal(t, "cache:tasks:_:_", cache.TasksKey(nil, ""))
	assert.Equal(t, "cache:tasks:3:2026-08-10", cache.TasksKey(&pid, "2026-08-10"))
}
