package repository

import (
	"context"
	"errors"

	repo "storefront/internal/repository"

	goredis "github.com/redis/go-redis/v9"
)

type SlotRedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// prefix はキーの前に付ける名前空間（例: "storefront:"）
func NewSlotRedisStore(rdb *goredis.Client, prefix string) *SlotRedisStore {
	return &SlotRedisStore{rdb: rdb, prefix: prefix}
}

func (s *SlotRedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// TTLなし。最後のSetが勝つ。
func (s *SlotRedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *SlotRedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
