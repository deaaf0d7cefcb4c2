package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"board-api/cache"
	"board-api/models"
	"board-api/repositories"
	"board-api/utils"
)

// ListQuery identifies one cached listing page. ViewerID is part of the key because each
// row carries the viewer's like flag.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	ViewerID uint
}

// PostListingCache is a read-through cache over the paginated post listing. Entries expire
// after ttl and are swept as a whole namespace by Invalidate whenever a post, comment or like
// changes. Lookups that fail on the store side are served straight from the database.
type PostListingCache struct {
	store   cache.Store
	metrics *cache.Metrics
	posts   *repositories.PostRepository
	likes   *repositories.LikeRepository
	ttl     time.Duration
	logger  *slog.Logger
}

func NewPostListingCache(
	store cache.Store,
	posts *repositories.PostRepository,
	likes *repositories.LikeRepository,
	ttl time.Duration,
	logger *slog.Logger,
) *PostListingCache {
	return &PostListingCache{
		store:   store,
		metrics: cache.NewMetrics(store),
		posts:   posts,
		likes:   likes,
		ttl:     ttl,
		logger:  logger,
	}
}

func (c *PostListingCache) Metrics() *cache.Metrics {
	return c.metrics
}

// Read returns the serialized listing. A hit returns the stored bytes untouched.
func (c *PostListingCache) Read(ctx context.Context, q ListQuery) (json.RawMessage, error) {
	key := cache.ListingKey(q.Page, q.Limit, q.Search, q.ViewerID)

	cached, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		c.record(ctx, "[CACHE HIT]", key, c.metrics.RecordHit)
		return json.RawMessage(cached), nil
	case errors.Is(err, cache.ErrMiss):
		c.record(ctx, "[CACHE MISS]", key, c.metrics.RecordMiss)
	default:
		c.logger.WarnContext(ctx, "listing cache unavailable, reading from database", "key", key, "err", err)
		return c.load(ctx, q)
	}

	payload, err := c.load(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logger.WarnContext(ctx, "failed to store listing", "key", key, "err", err)
	}
	return payload, nil
}

func (c *PostListingCache) record(ctx context.Context, event, key string, incr func(context.Context) error) {
	if err := incr(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to update cache counters", "err", err)
		return
	}
	if !c.logger.Enabled(ctx, slog.LevelInfo) {
		return
	}
	rate, err := c.HitRate(ctx)
	if err != nil {
		rate = "unknown"
	}
	c.logger.InfoContext(ctx, event, "key", key, "hitRate", rate+"%")
}

func (c *PostListingCache) load(ctx context.Context, q ListQuery) (json.RawMessage, error) {
	listing, err := c.compute(ctx, q)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCache, "failed to encode listing", err)
	}
	return payload, nil
}

func (c *PostListingCache) compute(ctx context.Context, q ListQuery) (models.PostListing, error) {
	posts, total, err := c.posts.Page(ctx, repositories.PostQuery{
		Offset:     utils.PageOffset(q.Page, q.Limit),
		Limit:      q.Limit,
		Search:     q.Search,
		WithAuthor: true,
	})
	if err != nil {
		return models.PostListing{}, utils.NewDatabaseError("failed to list posts", err)
	}

	rows, err := attachStats(ctx, c.posts, c.likes, posts, q.ViewerID)
	if err != nil {
		return models.PostListing{}, err
	}
	return models.NewPage(rows, total, q.Page, q.Limit), nil
}

// Invalidate drops every cached listing page. It runs after the mutation has committed, so a
// failed sweep is only logged; stale pages then live at most until their TTL.
func (c *PostListingCache) Invalidate(ctx context.Context, reason string) {
	n, err := c.store.DeletePrefix(ctx, cache.ListingPrefix)
	if err != nil {
		c.logger.ErrorContext(ctx, "listing cache invalidation failed", "reason", reason, "err", err)
		return
	}
	c.logger.DebugContext(ctx, "listing cache invalidated", "reason", reason, "keys", n)
}

// HitRate returns hits/(hits+misses) as a percentage with two decimals.
func (c *PostListingCache) HitRate(ctx context.Context) (string, error) {
	stats, err := c.Stats(ctx)
	if err != nil {
		return "", err
	}
	return stats.HitRate, nil
}

func (c *PostListingCache) Stats(ctx context.Context) (cache.Stats, error) {
	stats, err := c.metrics.Snapshot(ctx)
	if err != nil {
		return cache.Stats{}, utils.NewAppError(utils.ErrCache, "cache statistics unavailable", err)
	}
	return stats, nil
}

func (c *PostListingCache) ResetStats(ctx context.Context) error {
	if err := c.metrics.Reset(ctx); err != nil {
		return utils.NewAppError(utils.ErrCache, "failed to reset cache statistics", err)
	}
	return nil
}
