package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	repo "storefront/internal/repository"
)

// ローカルファイル1つをスロットとして扱う。
// 書き込みは一時ファイル→rename なので、途中で落ちても前の内容が残る。
type SlotFileStore struct {
	dir  string
	base string
}

// path は保存先のファイル。キーごとに "<base>.<key>" を作る。
func NewSlotFileStore(path string) *SlotFileStore {
	return &SlotFileStore{dir: filepath.Dir(path), base: filepath.Base(path)}
}

func (s *SlotFileStore) pathFor(key string) string {
	return filepath.Join(s.dir, s.base+"."+filepath.Base(key))
}

func (s *SlotFileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *SlotFileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, s.base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.pathFor(key)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *SlotFileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
