package cache

import (
	"context"
	"fmt"

	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/redis/go-redis/v9"
)

// DebugDB exposes raw key access for the debug-cache tool.
type DebugDB struct {
	rdb *redis.Client
	ctx context.Context
}

// NewDebug connects to redis for inspection. Unlike New, an unconfigured
// connection is an error: there is nothing to inspect.
func NewDebug(cfg *config.ConnectionConfig) (*DebugDB, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("cache is not configured")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to cache at %s: %w", cfg.Addr, err)
	}
	return &DebugDB{rdb: rdb, ctx: ctx}, nil
}

// GetAllKeys returns every key under the service prefix.
func (db *DebugDB) GetAllKeys() ([]string, error) {
	var keys []string
	iter := db.rdb.Scan(db.ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(db.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Type returns the redis type of a key.
func (db *DebugDB) Type(key string) (string, error) {
	return db.rdb.Type(db.ctx, key).Result()
}

// GetList returns all items of a list key.
func (db *DebugDB) GetList(key string) ([]string, error) {
	return db.rdb.LRange(db.ctx, key, 0, -1).Result()
}

// GetValue returns a string key's value.
func (db *DebugDB) GetValue(key string) (string, error) {
	return db.rdb.Get(db.ctx, key).Result()
}

// StrLen returns the byte length of a string key without fetching it.
func (db *DebugDB) StrLen(key string) (int64, error) {
	return db.rdb.StrLen(db.ctx, key).Result()
}
