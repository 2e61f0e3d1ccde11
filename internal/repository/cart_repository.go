package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カート全体のスナップショットを1つのスロットに保存する約束。
// Load は未保存・壊れたデータのとき空を返す（エラーにしない）。
type CartSnapshotRepository interface {
	Load(ctx context.Context) []model.CartLine
	Save(ctx context.Context, lines []model.CartLine) error
	Clear(ctx context.Context) error
}
