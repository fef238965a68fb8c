package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintJWT(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1234567890",
		"iat": 1700000000,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(token), minTokenLength)
	return token
}

type memTokenStore struct {
	mu      sync.Mutex
	token   string
	cleared int
	sets    int
}

func (s *memTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.sets++
	return nil
}

func (s *memTokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

// testServer answers /auth/telegram with a fresh token and /tasks/ with
// an empty list, counting both.
func testServer(t *testing.T, token string) (*httptest.Server, *int64, *int64) {
	t.Helper()
	var authCalls, taskCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/telegram":
			atomic.AddInt64(&authCalls, 1)
			json.NewEncoder(w).Encode(AuthResponse{AccessToken: token, TokenType: "bearer"})
		case strings.HasPrefix(r.URL.Path, "/tasks/"):
			atomic.AddInt64(&taskCalls, 1)
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte("[]"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &authCalls, &taskCalls
}

func TestLikelyJWT(t *testing.T) {
	assert.True(t, likelyJWT(mintJWT(t)))

	assert.False(t, likelyJWT(""))
	assert.False(t, likelyJWT("short.token.here"))
	assert.False(t, likelyJWT(strings.Repeat("x", 80)), "no dot segments")
	assert.False(t, likelyJWT(strings.Repeat("a", 40)+"."+strings.Repeat("b", 40)), "two segments")
	assert.False(t, likelyJWT(strings.Repeat("a", 70)+".."), "empty segments")
	assert.False(t, likelyJWT("!!!."+strings.Repeat("b", 40)+"."+strings.Repeat("c", 30)), "unparseable header")
}

// A stored value that is not structurally a JWT is purged and the
// client falls through to the exchange; the garbage is never sent.
func TestMalformedStoredTokenPurged(t *testing.T) {
	token := mintJWT(t)
	srv, authCalls, _ := testServer(t, token)

	store := &memTokenStore{token: strings.Repeat("x", 40)}
	c := NewClient(Options{BaseURL: srv.URL, Store: store, InitData: "init-data"})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.cleared)
	assert.EqualValues(t, 1, *authCalls)
	assert.Equal(t, token, store.token, "exchanged token persisted")
}

func TestStoredTokenReused(t *testing.T) {
	token := mintJWT(t)
	srv, authCalls, _ := testServer(t, token)

	store := &memTokenStore{token: token}
	c := NewClient(Options{BaseURL: srv.URL, Store: store, InitData: "init-data"})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, *authCalls, "no exchange when the stored token is usable")
}

func TestDevTokenOverridesStore(t *testing.T) {
	token := mintJWT(t)
	srv, authCalls, _ := testServer(t, token)

	store := &memTokenStore{}
	c := NewClient(Options{BaseURL: srv.URL, Store: store, DevToken: token, InitData: "init-data"})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, *authCalls)
	assert.Zero(t, store.sets, "dev token is never persisted")
}

// Concurrent first requests share one in-flight exchange.
func TestSingleFlightExchange(t *testing.T) {
	token := mintJWT(t)
	srv, authCalls, taskCalls := testServer(t, token)

	c := NewClient(Options{BaseURL: srv.URL, InitData: "init-data"})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Tasks(context.Background(), TaskFilter{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.EqualValues(t, 1, *authCalls)
	assert.EqualValues(t, n, *taskCalls)
}

// With no token source at all, protected calls fail fast client-side.
func TestNoTokenFailsFast(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, hits, "the request must never reach the network")
}

func TestFailedExchangeYieldsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/telegram" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, InitData: "bad-init-data"})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestHTTPErrorCarriesStatusAndBody(t *testing.T) {
	token := mintJWT(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"title is required"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, DevToken: token})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "title is required")
}

func TestNetworkErrorWrapped(t *testing.T) {
	token := mintJWT(t)
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1", DevToken: token})

	_, err := c.Tasks(context.Background(), TaskFilter{})
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestTaskFilterQuery(t *testing.T) {
	pid := 5
	assert.Equal(t, "", TaskFilter{}.query())
	assert.Equal(t, "?day=2026-08-10", TaskFilter{Day: "2026-08-10"}.query())
	assert.Equal(t, "?day=2026-08-10&project_id=5", TaskFilter{ProjectID: &pid, Day: "2026-08-10"}.query())
}

func TestEventFilterQuery(t *testing.T) {
	assert.Equal(t, "?end=2026-08-11&start=2026-08-10", EventFilter{Start: "2026-08-10", End: "2026-08-11"}.query())
}
