package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client is the typed gateway to the REST backend. It owns token
// acquisition: an in-memory token cache, the developer override, the
// persisted token, and the single-flight init-data exchange. Construct
// one per session with NewClient; there is no package-level state.
type Client struct {
	baseURL  string
	http     *http.Client
	store    TokenStore
	devToken string
	initData string
	log      *zap.Logger

	mu    sync.Mutex
	token string
	sf    singleflight.Group
}

// Options configures a Client. Store may be nil, in which case tokens
// are never persisted.
type Options struct {
	BaseURL  string
	Store    TokenStore
	DevToken string
	InitData string
	Logger   *zap.Logger
	HTTP     *http.Client
}

// NewClient builds a gateway client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		store:    opts.Store,
		devToken: opts.DevToken,
		initData: opts.InitData,
		log:      logger,
	}
}

// AuthResponse is the body of POST /auth/telegram.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        map[string]any `json:"user"`
}

// ensureToken resolves a bearer token from, in order: the in-memory
// cache, the developer override, persisted storage, and finally a
// single-flight exchange of the Telegram init data. It returns an empty
// token (and nil error) when no source can produce one; callers decide
// whether that is fatal.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if likelyJWT(c.token) {
		tok := c.token
		c.mu.Unlock()
		return tok, nil
	}
	c.token = ""
	c.mu.Unlock()

	if likelyJWT(c.devToken) {
		c.setToken(c.devToken, false)
		return c.devToken, nil
	}

	if c.store != nil {
		stored, err := c.store.Token()
		if err != nil {
			c.log.Warn("token store read failed", zap.Error(err))
		} else if likelyJWT(stored) {
			c.setToken(stored, false)
			return stored, nil
		} else if stored != "" {
			// Malformed persisted token: purge rather than ever send it.
			c.log.Info("discarding malformed stored token")
			if err := c.store.ClearToken(); err != nil {
				c.log.Warn("token store clear failed", zap.Error(err))
			}
		}
	}

	if c.initData == "" {
		return "", nil
	}

	// Concurrent callers share one in-flight exchange.
	v, err, _ := c.sf.Do("auth", func() (any, error) {
		resp, err := c.AuthTelegram(ctx, c.initData)
		if err != nil {
			return "", err
		}
		if !likelyJWT(resp.AccessToken) {
			return "", nil
		}
		c.setToken(resp.AccessToken, true)
		return resp.AccessToken, nil
	})
	if err != nil {
		c.log.Warn("token exchange failed", zap.Error(err))
		return "", nil
	}
	return v.(string), nil
}

func (c *Client) setToken(token string, persist bool) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if persist && c.store != nil {
		if err := c.store.SetToken(token); err != nil {
			c.log.Warn("token store write failed", zap.Error(err))
		}
	}
}

// AuthTelegram exchanges init data for a bearer token. This is the one
// public POST; it does not go through the token machinery.
func (c *Client) AuthTelegram(ctx context.Context, initData string) (AuthResponse, error) {
	var out AuthResponse
	err := c.request(ctx, http.MethodPost, "/auth/telegram", map[string]string{"init_data": initData}, &out)
	return out, err
}

func isPublicPath(path string) bool {
	return strings.HasPrefix(path, "/auth/telegram") || strings.HasPrefix(path, "/health")
}

// request performs one JSON round trip. Protected paths are refused
// with *AuthError before touching the network when no valid token is
// available; they are never sent unauthenticated.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var token string
	if !isPublicPath(path) {
		tok, err := c.ensureToken(ctx)
		if err != nil {
			return err
		}
		if tok == "" {
			return &AuthError{}
		}
		token = tok
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
