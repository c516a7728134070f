// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	stdctx "context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/critica/internal/platform/constants"
)

// RatingCacheTTL bounds staleness if an invalidation is ever lost. Review
// writes invalidate eagerly, so the TTL is a backstop, not the freshness
// mechanism.
const RatingCacheTTL = 1 * time.Hour

// noRatingSentinel marks a cached "no reviews yet" result so that titles
// without reviews do not hammer the aggregate query.
const noRatingSentinel = "none"

// RedisRatingCache implements [RatingSource] on Redis.
type RedisRatingCache struct {
	client *redis.Client
}

// NewRedisRatingCache returns a rating cache backed by the given client.
func NewRedisRatingCache(client *redis.Client) *RedisRatingCache {
	return &RedisRatingCache{client: client}
}

func ratingKey(titleID string) string {
	return constants.RedisPrefixRating + titleID
}

// Get returns the cached rating for a title. hit is false on a cache miss.
func (cache *RedisRatingCache) Get(context stdctx.Context, titleID string) (*float64, bool, error) {
	value, err := cache.client.Get(context, ratingKey(titleID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if value == noRatingSentinel {
		return nil, true, nil
	}

	rating, err := strconv.ParseFloat(value, 64)
	if err != nil {
		// A corrupt entry behaves like a miss; the read path repopulates it.
		return nil, false, nil
	}

	return &rating, true, nil
}

// Set stores the rating, encoding an absent rating as a sentinel value.
func (cache *RedisRatingCache) Set(context stdctx.Context, titleID string, rating *float64) error {
	value := noRatingSentinel
	if rating != nil {
		value = strconv.FormatFloat(*rating, 'f', 1, 64)
	}
	return cache.client.Set(context, ratingKey(titleID), value, RatingCacheTTL).Err()
}

// Invalidate drops the cached rating after a review write.
func (cache *RedisRatingCache) Invalidate(context stdctx.Context, titleID string) error {
	return cache.client.Del(context, ratingKey(titleID)).Err()
}
