package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

// sessionEntry holds the account identity and expiration for one token.
type sessionEntry struct {
	accountID string
	email     string
	expiresAt time.Time
}

// SessionStore is the in-memory account.SessionStore used in dev when
// Redis is unavailable, and in tests. Expired entries are dropped lazily
// on lookup.
type SessionStore struct {
	mu       sync.RWMutex
	byToken  map[string]sessionEntry
	tokenLen int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		byToken:  make(map[string]sessionEntry),
		tokenLen: 32,
	}
}

func (s *SessionStore) Create(ctx context.Context, accountID, email string, ttl time.Duration) (string, error) {
	if accountID == "" {
		return "", domain.ErrInvalidField("account_id", "empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token, err := newOpaqueToken(s.tokenLen)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[token] = sessionEntry{
		accountID: accountID,
		email:     email,
		expiresAt: time.Now().Add(ttl),
	}
	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	s.mu.RLock()
	entry, ok := s.byToken[token]
	s.mu.RUnlock()

	if !ok {
		return domain.Session{}, domain.ErrSessionInvalid()
	}
	if time.Now().After(entry.expiresAt) {
		_ = s.Delete(ctx, token)
		return domain.Session{}, domain.ErrSessionInvalid()
	}
	return domain.Session{AccountID: entry.accountID, Email: entry.email}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byToken, token) // idempotent
	return nil
}

func newOpaqueToken(bytesLen int) (string, error) {
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
