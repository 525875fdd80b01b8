package merchant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	mainmodel "pg-bridge-api/internal/model/main"
	"pg-bridge-api/internal/rediskey"
)

// CachedStore is a read-through redis cache in front of another Store.
// Redis failures degrade to the inner store.
type CachedStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
	log   *logrus.Logger
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *CachedStore {
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func (s *CachedStore) Get(ctx context.Context, mallID string) (*mainmodel.Merchant, error) {
	key := rediskey.Merchant(mallID)
	if m, ok := s.fromCache(ctx, key); ok {
		return m, nil
	}
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		m, err := s.inner.Get(ctx, mallID)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	// callers may mutate the merchant, hand each one its own copy
	cp := *v.(*mainmodel.Merchant)
	cp.Shops = append([]mainmodel.Shop(nil), cp.Shops...)
	return &cp, nil
}

func (s *CachedStore) Create(ctx context.Context, m *mainmodel.Merchant) error {
	if err := s.inner.Create(ctx, m); err != nil {
		return err
	}
	s.evict(ctx, m.MallID)
	return nil
}

func (s *CachedStore) Update(ctx context.Context, mallID string, fn func(m *mainmodel.Merchant) error) (*mainmodel.Merchant, error) {
	m, err := s.inner.Update(ctx, mallID, fn)
	s.evict(ctx, mallID)
	return m, err
}

func (s *CachedStore) fromCache(ctx context.Context, key string) (*mainmodel.Merchant, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("[MERCHANT-CACHE] redis get failed")
		return nil, false
	}
	var m mainmodel.Merchant
	if err := json.Unmarshal(raw, &m); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("[MERCHANT-CACHE] bad cached value")
		return nil, false
	}
	return &m, true
}

func (s *CachedStore) store(ctx context.Context, key string, m *mainmodel.Merchant) {
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("[MERCHANT-CACHE] redis set failed")
	}
}

func (s *CachedStore) evict(ctx context.Context, mallID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, rediskey.Merchant(mallID)).Err(); err != nil {
		s.log.WithError(err).WithField("mall_id", mallID).Warn("[MERCHANT-CACHE] redis del failed")
	}
}
