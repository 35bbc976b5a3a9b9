// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/feature/upload/usecase"
)

// CachingUploadRepository decorates an UploadRepository with Redis caching.
// Uploads are immutable, so a cached record never goes stale. Summary lists
// are keyed by a per-owner generation that Create increments, so a list
// computed before an insert can only land under a key nobody reads again.
// Full lists carry every row and are not cached.
type CachingUploadRepository struct {
	inner     usecase.UploadRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UploadRepository = (*CachingUploadRepository)(nil)

// NewCachingUploadRepository wraps inner. A nil rdb makes the decorator a
// pass-through. ttl defaults to 5 minutes and namespace to "uploads".
func NewCachingUploadRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UploadRepository, namespace string) *CachingUploadRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "uploads"
	}
	return &CachingUploadRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists through inner and moves the owner to a new list generation.
func (c *CachingUploadRepository) Create(ctx context.Context, u *entity.Upload) error {
	if err := c.inner.Create(ctx, u); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, c.generationKey(u.UserID)).Err(); err != nil {
		slog.Warn("upload list generation bump failed", "user_id", u.UserID, "error", err)
	}
	return nil
}

// FindByID serves the upload from the cache, filling it on a miss.
// Misses of the inner repository are not cached.
func (c *CachingUploadRepository) FindByID(ctx context.Context, ownerID, id uint) (*entity.Upload, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, ownerID, id)
	}

	key := c.itemKey(ownerID, id)
	var cached entity.Upload
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	u, err := c.inner.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, u)
	return u, nil
}

func (c *CachingUploadRepository) ListByOwner(ctx context.Context, ownerID uint) ([]entity.Upload, error) {
	return c.inner.ListByOwner(ctx, ownerID)
}

// ListSummariesByOwner caches the owner's summaries under the current
// generation. When the generation cannot be read the cache is bypassed.
func (c *CachingUploadRepository) ListSummariesByOwner(ctx context.Context, ownerID uint) ([]entity.UploadSummary, error) {
	if c.rdb == nil {
		return c.inner.ListSummariesByOwner(ctx, ownerID)
	}

	gen, err := c.rdb.Get(ctx, c.generationKey(ownerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("upload list generation read failed", "user_id", ownerID, "error", err)
		return c.inner.ListSummariesByOwner(ctx, ownerID)
	}

	key := c.summariesKey(ownerID, gen)
	var cached []entity.UploadSummary
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.ListSummariesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// load reports a hit. Entries that fail to decode are deleted.
func (c *CachingUploadRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store is best effort.
func (c *CachingUploadRepository) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *CachingUploadRepository) itemKey(ownerID, id uint) string {
	return fmt.Sprintf("%s:%d:%d", c.namespace, ownerID, id)
}

func (c *CachingUploadRepository) generationKey(ownerID uint) string {
	return fmt.Sprintf("%s:%d:gen", c.namespace, ownerID)
}

func (c *CachingUploadRepository) summariesKey(ownerID uint, gen int64) string {
	return fmt.Sprintf("%s:%d:summaries:%d", c.namespace, ownerID, gen)
}
