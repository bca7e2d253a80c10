package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"estate_portal_backend/internal/catalog/matching"

	"github.com/redis/go-redis/v9"
)

const (
	cachePrefix        = "catalog"
	cacheGenerationKey = cachePrefix + ":generation"
	// RangeCacheKey holds the price/area range of the whole catalog.
	RangeCacheKey = "range"
)

// QueryCache stores catalog query results in redis. Every key embeds a
// generation counter, so Invalidate drops all entries at once by bumping it.
// Callers read the generation before querying the store and pass it to Get
// and Set; a result computed before an Invalidate is then written under the
// retired generation and never served.
type QueryCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewQueryCache returns a cache, or nil when client is nil or ttl is zero.
func NewQueryCache(client redis.UniversalClient, ttl time.Duration) *QueryCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &QueryCache{client: client, ttl: ttl}
}

// Generation returns the current cache generation.
func (c *QueryCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, cacheGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Get decodes the entry for key at generation into dest. It reports false
// on a miss.
func (c *QueryCache) Get(ctx context.Context, generation int64, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fullKey(generation, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

// Set stores value under key at generation for the configured TTL.
func (c *QueryCache) Set(ctx context.Context, generation int64, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fullKey(generation, key), data, c.ttl).Err()
}

// Invalidate makes every existing entry unreachable.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, cacheGenerationKey).Err()
}

func fullKey(generation int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", cachePrefix, generation, key)
}

// QueryCacheKey derives a stable key from coerced criteria and sort key.
// Requests that coerce to the same criteria share an entry.
func QueryCacheKey(c matching.Criteria, key matching.SortKey) string {
	params := map[string]string{
		"sort":     string(matching.ParseSortKey(string(key))),
		"status":   string(c.Status),
		"type":     strings.ToLower(c.PropertyType),
		"keyword":  strings.ToLower(c.Keyword),
		"location": strings.ToLower(c.Location),
		"amenity":  strings.Join(c.Amenities, ","),
	}
	addBound := func(name string, value *float64) {
		if value != nil {
			params[name] = strconv.FormatFloat(*value, 'g', -1, 64)
		}
	}
	addBound("minPrice", c.MinPrice)
	addBound("maxPrice", c.MaxPrice)
	addBound("minBeds", c.MinBeds)
	addBound("minBaths", c.MinBaths)
	addBound("minArea", c.MinArea)
	addBound("maxArea", c.MaxArea)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Encode as JSON pairs so separators inside values cannot collide.
	pairs := make([][2]string, len(keys))
	for i, k := range keys {
		pairs[i] = [2]string{k, params[k]}
	}
	encoded, _ := json.Marshal(pairs)

	hash := md5.Sum(encoded)
	return "query:" + hex.EncodeToString(hash[:])
}
