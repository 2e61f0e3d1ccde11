package repository

import "context"

// 名前付きスロット（キー1つ＝値1つ）のKVストア。
// 値が無いときは Get が ErrNotFound を返す。
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
