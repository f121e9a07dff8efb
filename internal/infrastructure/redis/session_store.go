package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

// SessionStore implements account.SessionStore on Redis:
// - The session token is opaque (random, 256-bit).
// - Redis stores: sess:<token> -> "<account_id>:<email>" with TTL.
// Expiry is handled entirely by the key TTL; there is no sliding renewal.
type SessionStore struct {
	rdb *goredis.Client

	sessPrefix string
	tokenBytes int // entropy bytes for opaque token
}

func NewSessionStore(c *Client) *SessionStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &SessionStore{
		rdb:        rdb,
		sessPrefix: "sess:",
		tokenBytes: 32, // 256-bit
	}
}

func (s *SessionStore) Create(ctx context.Context, accountID, email string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", domain.ErrInvalidField("account_id", "empty")
	}
	if s.rdb == nil {
		return "", domain.ErrSessionStoreUnavailable(errors.New("redis session store not configured"))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token, err := s.newOpaqueToken()
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	val := fmt.Sprintf("%s:%s", accountID, email)
	if err := s.rdb.Set(ctx, s.sessPrefix+token, val, ttl).Err(); err != nil {
		return "", domain.ErrSessionStoreUnavailable(err)
	}

	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Session{}, domain.ErrSessionInvalid()
	}
	if s.rdb == nil {
		return domain.Session{}, domain.ErrSessionStoreUnavailable(errors.New("redis session store not configured"))
	}

	val, err := s.rdb.Get(ctx, s.sessPrefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Session{}, domain.ErrSessionInvalid()
		}
		return domain.Session{}, domain.ErrSessionStoreUnavailable(err)
	}

	sess, err := parseSessionVal(val)
	if err != nil {
		return domain.Session{}, domain.ErrSessionInvalid()
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		// idempotent
		return nil
	}
	if s.rdb == nil {
		return domain.ErrSessionStoreUnavailable(errors.New("redis session store not configured"))
	}
	_ = s.rdb.Del(ctx, s.sessPrefix+token).Err()
	return nil
}

// ---- helpers ----

// parseSessionVal splits "<account_id>:<email>". IDs are UUIDs and never
// contain a colon, so SplitN keeps emails with colons intact.
func parseSessionVal(v string) (domain.Session, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return domain.Session{}, fmt.Errorf("bad session val")
	}
	return domain.Session{AccountID: parts[0], Email: parts[1]}, nil
}

func (s *SessionStore) newOpaqueToken() (string, error) {
	b := make([]byte, s.tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// URL-safe, no padding
	return base64.RawURLEncoding.EncodeToString(b), nil
}
