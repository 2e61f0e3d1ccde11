package repository

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/platform/logger"
	repo "storefront/internal/repository"
)

// カートのスナップショットをスロットにJSONで置く
type CartSnapshotStore struct {
	slots repo.SlotStore
	key   string
	log   *logger.Logger
}

// DI
func NewCartSnapshotStore(slots repo.SlotStore, key string, log *logger.Logger) *CartSnapshotStore {
	return &CartSnapshotStore{
		slots: slots,
		key:   key,
		log:   log.With("component", "CartSnapshotStore", "slot", key),
	}
}

// 未保存・読み込み失敗・壊れたJSONはすべて空カート扱い
func (s *CartSnapshotStore) Load(ctx context.Context) []model.CartLine {
	raw, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.CartLine{}
	}
	if err != nil {
		s.log.Warn("cart snapshot read failed, starting empty", "error", err)
		return []model.CartLine{}
	}

	lines, err := decodeSnapshot(raw)
	if err != nil {
		s.log.Warn("cart snapshot malformed, starting empty", "error", err)
		return []model.CartLine{}
	}
	return lines
}

// 全件を1回で書き込む
func (s *CartSnapshotStore) Save(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.slots.Set(ctx, s.key, raw)
}

func (s *CartSnapshotStore) Clear(ctx context.Context) error {
	return s.slots.Delete(ctx, s.key)
}

var errMalformedSnapshot = errors.New("malformed snapshot")

// 1行でもおかしければスナップショット全体を捨てる
func decodeSnapshot(raw []byte) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		return []model.CartLine{}, nil
	}

	seen := make(map[string]struct{}, len(lines))
	for i := range lines {
		l := &lines[i]
		if l.ProductID == "" || l.Quantity < 1 {
			return nil, errMalformedSnapshot
		}
		if l.Attributes == nil {
			l.Attributes = model.AttributeSelection{}
		}
		k := l.Identity().Key()
		if _, dup := seen[k]; dup {
			return nil, errMalformedSnapshot
		}
		seen[k] = struct{}{}
	}
	return lines, nil
}
