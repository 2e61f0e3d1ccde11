package repository

import (
	"context"
	"sync"

	repo "storefront/internal/repository"
)

// プロセス内だけのスロット（開発・テスト用）
type SlotMemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSlotMemoryStore() *SlotMemoryStore {
	return &SlotMemoryStore{slots: make(map[string][]byte)}
}

func (s *SlotMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *SlotMemoryStore) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.slots[key] = v
	s.mu.Unlock()
	return nil
}

func (s *SlotMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}
