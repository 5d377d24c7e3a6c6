// Package cache holds the Redis-backed cache of room listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shivanand-hulikatti/hotel-occupancy/internal/model"
)

// Views of the room table that are cached.
const (
	ViewAll      = "all"
	ViewFree     = "free"
	ViewOccupied = "occupied"
)

const keyPrefix = "hotel:rooms:"

// RoomCache caches room listings under a generation number. Every
// mutating operation bumps the generation after its transaction commits,
// so a listing read before the commit can only ever be stored under a
// generation nobody reads any more.
type RoomCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRoomCache constructs a RoomCache.
func NewRoomCache(rdb redis.Cmdable, ttl time.Duration) *RoomCache {
	return &RoomCache{rdb: rdb, ttl: ttl}
}

func genKey() string { return keyPrefix + "gen" }

func viewKey(gen uint64, view string) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, gen, view)
}

// Generation returns the current cache generation.
func (c *RoomCache) Generation(ctx context.Context) (uint64, error) {
	gen, err := c.rdb.Get(ctx, genKey()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached listing for view. The returned generation must be
// passed to Set when the caller fills a miss.
func (c *RoomCache) Get(ctx context.Context, view string) ([]model.Room, uint64, bool, error) {
	gen, err := c.Generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.rdb.Get(ctx, viewKey(gen, view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("read cached rooms: %w", err)
	}

	var rooms []model.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, gen, false, fmt.Errorf("decode cached rooms: %w", err)
	}
	return rooms, gen, true, nil
}

// Set stores a listing read while gen was current.
func (c *RoomCache) Set(ctx context.Context, gen uint64, view string, rooms []model.Room) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encode rooms: %w", err)
	}
	if err := c.rdb.Set(ctx, viewKey(gen, view), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached rooms: %w", err)
	}
	return nil
}

// Invalidate retires every cached listing.
func (c *RoomCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, genKey()).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}
