package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// processingMarker valor del candado mientras la petición original sigue en curso.
const processingMarker = "PROCESSING"

// IdempotencyStore guarda respuestas idempotentes en Redis (SETNX + SET con TTL).
type IdempotencyStore struct {
	client goredis.Cmdable
}

// NewIdempotencyStore construye el store sobre un cliente ya conectado.
func NewIdempotencyStore(client goredis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, processingMarker, ttl).Result()
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if string(val) == processingMarker {
		return nil, false, nil
	}
	return val, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
