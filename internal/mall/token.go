package mall

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/rediskey"
)

// RedisTokenStore reads tokens written by the OAuth component, either as the raw
// token or as the Mall's token JSON.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) GetAccessToken(ctx context.Context, mallID string) (string, error) {
	raw, err := s.rdb.Get(ctx, rediskey.AccessToken(mallID)).Result()
	if err == redis.Nil {
		return "", constant.NewErrorf(constant.CodeAccessTokenNotPresent, "no access token for mall %s", mallID)
	}
	if err != nil {
		return "", constant.Wrap(constant.CodeRedisError, err)
	}
	return parseToken(mallID, raw)
}

func parseToken(mallID, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var t struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return "", constant.Wrap(constant.CodeAccessTokenNotPresent, err)
		}
		raw = t.AccessToken
	}
	if raw == "" {
		return "", constant.NewErrorf(constant.CodeAccessTokenNotPresent, "empty access token for mall %s", mallID)
	}
	return raw, nil
}

// StaticTokens serves fixed tokens, used in demo mode and tests.
type StaticTokens struct {
	mu     sync.RWMutex
	tokens map[string]string
	// returned for malls without an explicit token, when set
	Fallback string
}

func NewStaticTokens(fallback string) *StaticTokens {
	return &StaticTokens{tokens: map[string]string{}, Fallback: fallback}
}

func (s *StaticTokens) Set(mallID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[mallID] = token
}

func (s *StaticTokens) GetAccessToken(_ context.Context, mallID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tokens[mallID]; ok {
		return t, nil
	}
	if s.Fallback != "" {
		return s.Fallback, nil
	}
	return "", constant.NewErrorf(constant.CodeAccessTokenNotPresent, "no access token for mall %s", mallID)
}
