// Package cache implements the stale-while-revalidate read-through
// layer between the pages and the gateway. Values live in durable local
// storage keyed by resource+filter tuple; a cached value is returned
// immediately while a background refetch runs, and only an actual
// change publishes a notification on the bus.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"go.uber.org/zap"

	"github.com/spacearound404/planboard/internal/storage"
)

// Backend is the durable store behind the cache. A nil backend degrades
// every read to a blocking fetch.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Notifier receives change topics. Matches *bus.Bus.
type Notifier interface {
	Publish(topic string)
}

// Store wires the backend, the change bus, and a logger together.
type Store struct {
	kv  Backend
	bus Notifier
	log *zap.Logger
}

// New builds a cache store.
func New(kv Backend, n Notifier, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, bus: n, log: log}
}

// ReadThrough returns the value for key. A cached value is decoded and
// returned at once; unless revalidate is false, fetch runs in the
// background and, when the result differs structurally from the cached
// value, the entry is overwritten and topic is published. With no
// cached value the fetch blocks and its error propagates. Background
// fetch errors are swallowed: stale data keeps serving.
func ReadThrough[T any](ctx context.Context, s *Store, key, topic string, fetch func(context.Context) (T, error), revalidate bool) (T, error) {
	var zero T

	cached, ok := s.read(key)
	if ok {
		var v T
		if err := json.Unmarshal(cached, &v); err == nil {
			if revalidate {
				go s.revalidate(ctx, key, topic, cached, func(ctx context.Context) (any, error) { return fetch(ctx) })
			}
			return v, nil
		}
		// Undecodable entry: fall through to a blocking fetch.
		s.log.Warn("dropping undecodable cache entry", zap.String("key", key))
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	s.write(key, v)
	return v, nil
}

// Refresh fetches key synchronously, overwrites the cached entry, and
// publishes topic when the value actually changed. Pages call it after
// a mutation so the next read sees the server's truth immediately.
func Refresh[T any](ctx context.Context, s *Store, key, topic string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	fresh, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	freshRaw, err := json.Marshal(fresh)
	if err != nil {
		return zero, err
	}
	cached, ok := s.read(key)
	changed := !ok || !equalJSON(cached, freshRaw)
	if s.kv != nil {
		if err := s.kv.Put(key, freshRaw); err != nil {
			s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	if changed && s.bus != nil {
		s.bus.Publish(topic)
	}
	return fresh, nil
}

func (s *Store) read(key string) ([]byte, bool) {
	if s.kv == nil {
		return nil, false
	}
	raw, err := s.kv.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}

func (s *Store) write(key string, v any) {
	if s.kv == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Put(key, b); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) revalidate(ctx context.Context, key, topic string, cached []byte, fetch func(context.Context) (any, error)) {
	fresh, err := fetch(ctx)
	if err != nil {
		s.log.Debug("revalidation failed", zap.String("key", key), zap.Error(err))
		return
	}
	freshRaw, err := json.Marshal(fresh)
	if err != nil {
		s.log.Warn("revalidation encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	changed := !equalJSON(cached, freshRaw)
	if s.kv != nil {
		if err := s.kv.Put(key, freshRaw); err != nil {
			s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	if changed && s.bus != nil {
		s.bus.Publish(topic)
	}
}

// equalJSON compares two JSON documents structurally, so a backend that
// reorders object keys does not fire spurious change events.
func equalJSON(a, b []byte) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
