// Package cache provides a Redis-backed read-through cache for the Catalog
// Gateway's lookups (city names, place coordinates, transport mode tags).
// Itinerary results themselves are never cached here — the engine has no
// offline/cached-refresh mode (spec Non-goals).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewCacheFromAddr creates a Redis cache client from a single "host:port"
// address, for callers (like the catalog gateway's config) that carry the
// connection as one value rather than discrete host/port fields.
func NewCacheFromAddr(addr, password string, db int) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("catalog cache connection established at %s", addr)

	return &Cache{client: rdb}, nil
}

// Config holds Redis configuration.
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Cache wraps a Redis client with JSON marshal/unmarshal convenience
// methods.
type Cache struct {
	client *redis.Client
	config Config
}

// NewCache creates a new Redis cache client with sensible defaults.
func NewCache(config Config) (*Cache, error) {
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}
	if config.MinIdleConns == 0 {
		config.MinIdleConns = 2
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 3 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 3 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("catalog cache connection established with pool size %d", config.PoolSize)

	return &Cache{client: rdb, config: config}, nil
}

// Set stores a value in cache with expiration.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

// Get retrieves a value from cache into dest. Returns ErrCacheMiss if the
// key is absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return nil
}

// Delete removes keys from cache.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on Redis.
func (c *Cache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}

// Stats returns Redis connection pool statistics.
func (c *Cache) Stats() *redis.PoolStats {
	return c.client.PoolStats()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	log.Println("closing catalog cache connection")
	return c.client.Close()
}

// CacheKey generates a cache key with prefix.
func CacheKey(prefix string, parts ...string) string {
	key := prefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

// Cache key prefixes for the three Catalog Gateway lookups the engine
// reads through this cache.
const (
	CityNamePrefix      = "city_name"
	PlaceCoordsPrefix   = "place_coords"
	TransportModePrefix = "transport_mode"
)

// Cache durations.
const (
	ShortTTL  = 5 * time.Minute
	MediumTTL = 30 * time.Minute
	LongTTL   = 2 * time.Hour
	DayTTL    = 24 * time.Hour
)

// ErrCacheMiss is returned when a cache key is not found.
var ErrCacheMiss = fmt.Errorf("cache miss")

// CatalogCache provides the Catalog Gateway's three read-through caching
// operations.
type CatalogCache struct {
	cache *Cache
}

// NewCatalogCache creates a new catalog cache wrapper.
func NewCatalogCache(cache *Cache) *CatalogCache {
	return &CatalogCache{cache: cache}
}

// Coords mirrors the (lat, lon) pair cached for a place.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CacheCityName caches a city's display name.
func (cc *CatalogCache) CacheCityName(ctx context.Context, cityID string, name string) error {
	key := CacheKey(CityNamePrefix, cityID)
	return cc.cache.Set(ctx, key, name, DayTTL)
}

// GetCityName retrieves a cached city display name.
func (cc *CatalogCache) GetCityName(ctx context.Context, cityID string) (string, error) {
	key := CacheKey(CityNamePrefix, cityID)
	var name string
	err := cc.cache.Get(ctx, key, &name)
	return name, err
}

// CachePlaceCoords caches a place's coordinates.
func (cc *CatalogCache) CachePlaceCoords(ctx context.Context, variant, placeID string, coords Coords) error {
	key := CacheKey(PlaceCoordsPrefix, variant, placeID)
	return cc.cache.Set(ctx, key, coords, LongTTL)
}

// GetPlaceCoords retrieves cached place coordinates.
func (cc *CatalogCache) GetPlaceCoords(ctx context.Context, variant, placeID string) (Coords, error) {
	key := CacheKey(PlaceCoordsPrefix, variant, placeID)
	var coords Coords
	err := cc.cache.Get(ctx, key, &coords)
	return coords, err
}

// CacheTransportMode caches a transport entity's resolved mode tag.
func (cc *CatalogCache) CacheTransportMode(ctx context.Context, transportID string, mode string) error {
	key := CacheKey(TransportModePrefix, transportID)
	return cc.cache.Set(ctx, key, mode, DayTTL)
}

// GetTransportMode retrieves a cached transport mode tag.
func (cc *CatalogCache) GetTransportMode(ctx context.Context, transportID string) (string, error) {
	key := CacheKey(TransportModePrefix, transportID)
	var mode string
	err := cc.cache.Get(ctx, key, &mode)
	return mode, err
}
