package storage

import "errors"

const tokenKey = "auth:token"

// Token returns the persisted bearer token, or "" when none is stored.
func (s *KV) Token() (string, error) {
	v, err := s.Get(tokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SetToken persists the bearer token.
func (s *KV) SetToken(token string) error {
	return s.Put(tokenKey, []byte(token))
}

// ClearToken removes the persisted bearer token.
func (s *KV) ClearToken() error {
	return s.Delete(tokenKey)
}
