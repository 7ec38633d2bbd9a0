package tmplstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the template in a Redis string.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func templateKey(key string) string {
	return fmt.Sprintf("cigen:template:%s", key)
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	res, err := s.rdb.Get(ctx, templateKey(s.key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

// Save stores the template without expiry.
func (s *RedisStore) Save(ctx context.Context, body string) error {
	return s.rdb.Set(ctx, templateKey(s.key), body, 0).Err()
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return s.rdb.Del(ctx, templateKey(s.key)).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
