package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"p2plend-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	logger.Log.WithField("addr", addr).Info("redis: connected")
	return r, nil
}

// GetJSON decodes key into dst. found is false on a miss.
func GetJSON(ctx context.Context, r redis.Cmdable, key string, dst any) (found bool, err error) {
	raw, err := r.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func SetJSON(ctx context.Context, r redis.Cmdable, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, raw, ttl).Err()
}
