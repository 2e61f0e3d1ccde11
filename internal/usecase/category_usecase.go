package usecase

import (
	"context"
	"strings"
	"sync"

	repo "storefront/internal/repository"
)

const DefaultCategory = "all"

// 現在のカテゴリ（ナビのハイライト用）を持つ
type CategoryUsecase struct {
	catalog  repo.CatalogRepository
	notifier *Notifier

	mu      sync.RWMutex
	current string
}

// DI
func NewCategoryUsecase(catalog repo.CatalogRepository, notifier *Notifier) *CategoryUsecase {
	return &CategoryUsecase{
		catalog:  catalog,
		notifier: notifier,
		current:  DefaultCategory,
	}
}

type CategoryItemResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

type CategoryListResponse struct {
	Current    string                 `json:"current"`
	Categories []CategoryItemResponse `json:"categories"`
}

func (u *CategoryUsecase) Current() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.current
}

func (u *CategoryUsecase) SetCurrent(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultCategory
	}
	u.mu.Lock()
	u.current = name
	u.mu.Unlock()
}

// URLの先頭セグメントからカテゴリを合わせる。
// "/" と商品詳細（/products/...）は対象外。
func (u *CategoryUsecase) SyncWithPath(path string) {
	seg := firstSegment(path)
	if seg == "" || seg == "products" {
		return
	}
	if seg != u.Current() {
		u.SetCurrent(seg)
	}
}

func (u *CategoryUsecase) IsActive(name string) bool {
	return strings.EqualFold(name, u.Current())
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) (CategoryListResponse, error) {
	cats, err := u.catalog.ListCategories(ctx)
	if err != nil {
		return CategoryListResponse{}, catalogFailure(u.notifier, err)
	}

	items := make([]CategoryItemResponse, 0, len(cats))
	for _, c := range cats {
		items = append(items, CategoryItemResponse{
			ID:     c.ID,
			Name:   c.Name,
			Label:  capitalize(c.Name),
			Path:   "/" + c.Name,
			Active: u.IsActive(c.Name),
		})
	}
	return CategoryListResponse{Current: u.Current(), Categories: items}, nil
}

func firstSegment(path string) string {
	path = strings.ToLower(strings.TrimSpace(path))
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	return parts[0]
}

// "clothes" → "Clothes"。空ならカタログ上の全件 "All"。
func CategoryQueryName(pathCategory string) string {
	if strings.TrimSpace(pathCategory) == "" {
		return capitalize(DefaultCategory)
	}
	return capitalize(strings.TrimSpace(pathCategory))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
