// Package respcache caches finished search responses in a key-value store.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

// DefaultPrefix namespaces cache keys in shared stores.
const DefaultPrefix = "cinedex:resp:"

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache implements usecase/search.ResponseCache. Failures are logged and
// reported as misses.
type Cache struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a response cache. An empty prefix selects DefaultPrefix.
func New(s store, prefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: s, prefix: prefix, ttl: ttl, logger: logger}
}

// Get returns the cached response for key.
func (c *Cache) Get(ctx context.Context, key string) (result.Response, bool) {
	k := c.storeKey(key)
	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", k), zap.Error(err))
		}
		return result.Response{}, false
	}
	if len(data) == 0 {
		return result.Response{}, false
	}

	var dto responseDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached response", zap.String("key", k), zap.Error(err))
		return result.Response{}, false
	}
	resp, err := dto.toDomain()
	if err != nil {
		c.logger.Warn("Failed to restore cached response", zap.String("key", k), zap.Error(err))
		return result.Response{}, false
	}
	return resp, true
}

// Set stores resp under key.
func (c *Cache) Set(ctx context.Context, key string, resp result.Response) {
	k := c.storeKey(key)
	data, err := json.Marshal(fromDomain(resp))
	if err != nil {
		c.logger.Warn("Failed to encode response", zap.String("key", k), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, k, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", k), zap.Error(err))
	}
}

func (c *Cache) storeKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return c.prefix + hex.EncodeToString(h[:])
}
