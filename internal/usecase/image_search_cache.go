package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/drinkbook/client/internal/domain"
	"go.uber.org/zap"
)

// DefaultImagePageSize is the number of images requested per page
const DefaultImagePageSize = 6

// ImageSearchCache memoizes image search results per (query, page). Entries
// live for the lifetime of the process and are never invalidated. Two
// concurrent misses for the same key both go to the network; the later one
// overwrites the earlier with an equivalent value.
type ImageSearchCache struct {
	searcher domain.ImageSearcher
	cache    domain.CacheRepository
	pageSize int
	log      *zap.Logger
}

// NewImageSearchCache creates a cache in front of searcher
func NewImageSearchCache(
	searcher domain.ImageSearcher,
	cache domain.CacheRepository,
	pageSize int,
	log *zap.Logger,
) *ImageSearchCache {
	if pageSize <= 0 {
		pageSize = DefaultImagePageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageSearchCache{
		searcher: searcher,
		cache:    cache,
		pageSize: pageSize,
		log:      log.Named("images"),
	}
}

// PageSize returns the number of images requested per page
func (c *ImageSearchCache) PageSize() int {
	return c.pageSize
}

// Fetch returns the images for query and page. A cached entry is returned
// as the very same slice that was stored, without touching the network.
// The query is used verbatim, so "mint" and "mint " are different keys.
func (c *ImageSearchCache) Fetch(ctx context.Context, query string, page int) ([]domain.ImageRef, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrValidation, page)
	}

	key := imageCacheKey(query, page)

	cached, err := c.cache.Get(ctx, key)
	if err == nil {
		if refs, ok := cached.([]domain.ImageRef); ok {
			c.log.Debug("image cache hit", zap.String("query", query), zap.Int("page", page))
			return refs, nil
		}
		c.log.Warn("unexpected value in image cache", zap.String("key", key))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		c.log.Warn("image cache read failed", zap.String("key", key), zap.Error(err))
	}

	refs, err := c.searcher.SearchImages(ctx, domain.ImageSearchRequest{
		Query: query,
		Count: c.pageSize,
		Page:  page,
	})
	if err != nil {
		return nil, err
	}

	if len(refs) > 0 {
		if err := c.cache.Set(ctx, key, refs); err != nil {
			c.log.Warn("failed to cache images", zap.String("key", key), zap.Error(err))
		}
	}

	c.log.Debug("images fetched", zap.String("query", query), zap.Int("page", page), zap.Int("count", len(refs)))
	return refs, nil
}

func imageCacheKey(query string, page int) string {
	return fmt.Sprintf("images:%q:%d", query, page)
}
