package repository

import (
	"context"
	"time"

	"estate_portal_backend/internal/favorites/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// loadedMarker is always a member of a cached set so an owner with no
// favorites still has a key, telling an empty set apart from a miss.
const loadedMarker = "-"

// Membership mutations only apply to sets that are already cached, so a
// partial set is never mistaken for the full one.
var (
	addIfCached = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	redis.call('SADD', KEYS[1], ARGV[1])
	return 1
end
return 0`)
	removeIfCached = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	redis.call('SREM', KEYS[1], ARGV[1])
	return 1
end
return 0`)
)

// SetCache mirrors each owner's favorites in a redis SET.
type SetCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSetCache returns a cache, or nil when client is nil.
func NewSetCache(client redis.UniversalClient, ttl time.Duration) *SetCache {
	if client == nil {
		return nil
	}
	return &SetCache{client: client, ttl: ttl}
}

func setKey(ownerID uuid.UUID) string {
	return "favorites:" + ownerID.String()
}

// Load returns the cached set and whether it was present.
func (c *SetCache) Load(ctx context.Context, ownerID uuid.UUID) (domain.Set, bool, error) {
	members, err := c.client.SMembers(ctx, setKey(ownerID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	set := make(domain.Set, len(members))
	for _, member := range members {
		if member == loadedMarker {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set, true, nil
}

// Store replaces the cached set for ownerID.
func (c *SetCache) Store(ctx context.Context, ownerID uuid.UUID, set domain.Set) error {
	key := setKey(ownerID)
	members := make([]interface{}, 0, set.Len()+1)
	members = append(members, loadedMarker)
	for _, id := range set.IDs() {
		members = append(members, id.String())
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Add records propertyID in an already cached set.
func (c *SetCache) Add(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	return addIfCached.Run(ctx, c.client, []string{setKey(ownerID)}, propertyID.String()).Err()
}

// Remove drops propertyID from an already cached set.
func (c *SetCache) Remove(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	return removeIfCached.Run(ctx, c.client, []string{setKey(ownerID)}, propertyID.String()).Err()
}

// Forget drops the cached set for ownerID.
func (c *SetCache) Forget(ctx context.Context, ownerID uuid.UUID) error {
	return c.client.Del(ctx, setKey(ownerID)).Err()
}
