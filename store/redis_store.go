package store

import (
	"context"
	"errors"

	"github.com/qrtable/tableside/utils"
	"github.com/redis/go-redis/v9"
)

// RedisStore menyimpan key/value di Redis, untuk deployment kiosk yang
// berbagi storage antar device dalam satu outlet.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	return &RedisStore{Client: client}, nil
}

func (r *RedisStore) Get(key string) (string, bool) {
	value, err := r.Client.Get(context.Background(), key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Printf("Error reading key %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

func (r *RedisStore) Set(key, value string) {
	if err := r.Client.Set(context.Background(), key, value, 0).Err(); err != nil {
		utils.ErrorLogger.Printf("Error writing key %s: %v", key, err)
	}
}

func (r *RedisStore) Remove(key string) {
	if err := r.Client.Del(context.Background(), key).Err(); err != nil {
		utils.ErrorLogger.Printf("Error removing key %s: %v", key, err)
	}
}

func (r *RedisStore) Close() error {
	return r.Client.Close()
}
