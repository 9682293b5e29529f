package data

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	responsePrefix    = "govforum:resp:"
	suppressionPrefix = "govforum:spamflag:"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// CacheStore wraps Redis for the response cache and the spam suppression
// markers. All methods are single-key operations; no transactions needed.
type CacheStore struct {
	rdb *redis.Client
}

func NewCacheStore(rdb *redis.Client) *CacheStore {
	return &CacheStore{rdb: rdb}
}

// Get returns the cached payload or ("", false) on miss.
func (s *CacheStore) Get(ctx context.Context, key string) (string, bool) {
	v, err := s.rdb.Get(ctx, responsePrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: get %s: %v", key, err)
		}
		return "", false
	}
	return v, true
}

func (s *CacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, responsePrefix+key, value, ttl).Err()
}

func (s *CacheStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, responsePrefix+key).Err()
}

// DeleteByPattern removes every response key matching the glob pattern.
func (s *CacheStore) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := s.rdb.Scan(ctx, 0, responsePrefix+pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// MarkSpamFlagged sets the TTL-bounded suppression marker for a content id.
// Returns true when the marker was newly set, i.e. this report is the first
// threshold crossing and the flag-flip/notification should run.
func (s *CacheStore) MarkSpamFlagged(ctx context.Context, contentID string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, suppressionPrefix+contentID, "1", ttl).Result()
}
