package health

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"pg-bridge-api/internal/rediskey"
)

// Store keeps per-host rates and degraded flags.
type Store interface {
	// Rate returns the stored rate, ok=false when none is stored.
	Rate(ctx context.Context, host string) (rate float64, ok bool, err error)
	SaveRate(ctx context.Context, host string, rate float64, ttl time.Duration) error
	// MarkDegraded sets the flag and reports whether it was unset before.
	MarkDegraded(ctx context.Context, host string, ttl time.Duration) (bool, error)
	ClearDegraded(ctx context.Context, host string) error
	Degraded(ctx context.Context, host string) (bool, error)
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Rate(ctx context.Context, host string) (float64, bool, error) {
	v, err := s.rdb.Get(ctx, rediskey.NotifyRate(host)).Float64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (s *RedisStore) SaveRate(ctx context.Context, host string, rate float64, ttl time.Duration) error {
	return s.rdb.Set(ctx, rediskey.NotifyRate(host), rate, ttl).Err()
}

func (s *RedisStore) MarkDegraded(ctx context.Context, host string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, rediskey.NotifyDegraded(host), 1, ttl).Result()
}

func (s *RedisStore) ClearDegraded(ctx context.Context, host string) error {
	return s.rdb.Del(ctx, rediskey.NotifyDegraded(host)).Err()
}

func (s *RedisStore) Degraded(ctx context.Context, host string) (bool, error) {
	n, err := s.rdb.Exists(ctx, rediskey.NotifyDegraded(host)).Result()
	return n > 0, err
}

// MemoryStore is a process-local Store. Entries do not expire.
type MemoryStore struct {
	mu       sync.Mutex
	rates    map[string]float64
	degraded map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rates: map[string]float64{}, degraded: map[string]bool{}}
}

func (s *MemoryStore) Rate(_ context.Context, host string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rates[host]
	return v, ok, nil
}

func (s *MemoryStore) SaveRate(_ context.Context, host string, rate float64, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[host] = rate
	return nil
}

func (s *MemoryStore) MarkDegraded(_ context.Context, host string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded[host] {
		return false, nil
	}
	s.degraded[host] = true
	return true, nil
}

func (s *MemoryStore) ClearDegraded(_ context.Context, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.degraded, host)
	return nil
}

func (s *MemoryStore) Degraded(_ context.Context, host string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded[host], nil
}
