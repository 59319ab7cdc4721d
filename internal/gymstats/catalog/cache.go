package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsignal/internal/telemetry/tracing"
)

const cacheKeyPrefix = "catalog:"

func cacheKey(name string) string {
	return cacheKeyPrefix + name
}

// CachedRepo is a redis read-through cache over the catalog store. Entries change
// rarely and are read on every suggestion. Redis failures only cost the cache.
type CachedRepo struct {
	store       Store
	redisClient *redis.Client
	ttl         time.Duration
}

func NewCachedRepo(store Store, redisClient *redis.Client, ttl time.Duration) *CachedRepo {
	return &CachedRepo{
		store:       store,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (c *CachedRepo) Get(ctx context.Context, name string) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := cacheKey(name)
	cached, redisErr := c.redisClient.Get(ctx, key).Bytes()
	switch {
	case redisErr == nil:
		var entry Entry
		if err := json.Unmarshal(cached, &entry); err == nil {
			span.SetAttributes(attribute.Bool("from-cache", true))
			return &entry, nil
		}
		log.Errorf("failed to unmarshal cached catalog entry [%s]", key)
	case errors.Is(redisErr, redis.Nil):
		log.Tracef("catalog entry [%s] not cached", key)
	default:
		log.Errorf("failed to get catalog entry [%s] from redis: %s", key, redisErr)
	}
	span.SetAttributes(attribute.Bool("from-cache", false))

	entry, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	// redis is down, no point in trying to write to it
	if redisErr != nil && !errors.Is(redisErr, redis.Nil) {
		return entry, nil
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal catalog entry [%s]: %s", name, err)
		return entry, nil
	}
	if err := c.redisClient.Set(ctx, key, string(entryJson), c.ttl).Err(); err != nil {
		log.Errorf("failed to cache catalog entry [%s]: %s", key, err)
	}
	return entry, nil
}

func (c *CachedRepo) List(ctx context.Context, muscleGroup string) ([]Entry, error) {
	return c.store.List(ctx, muscleGroup)
}

func (c *CachedRepo) Upsert(ctx context.Context, entry Entry) (*Entry, error) {
	saved, err := c.store.Upsert(ctx, entry)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, entry.Name)
	return saved, nil
}

func (c *CachedRepo) Delete(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, name); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *CachedRepo) invalidate(ctx context.Context, name string) {
	if err := c.redisClient.Del(ctx, cacheKey(name)).Err(); err != nil {
		log.Errorf("failed to invalidate catalog entry [%s]: %s", name, err)
	}
}
