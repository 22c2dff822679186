package keyvalue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance named by url
// (redis://[user:pass@]host:port/db) and verifies it with a ping.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (GetResponse, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return GetResponse{}, nil
	}
	if err != nil {
		return GetResponse{}, err
	}
	return GetResponse{Exists: true, Value: value}, nil
}

func (s *RedisStore) Set(ctx context.Context, req SetRequest) error {
	return s.client.Set(ctx, req.Key, req.Value, time.Duration(req.Expires)*time.Second).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
