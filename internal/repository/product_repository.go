package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ（GraphQL）からの読み取りだけを約束。
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListCategoryProducts(ctx context.Context, categoryName string) ([]model.Product, error)
	FindProduct(ctx context.Context, productID string) (model.Product, error)
	// カート表示用に属性のメタデータを1回の問い合わせでまとめて取り直す。
	// カタログに無い商品は結果に含まれない。
	FindAttributesByProduct(ctx context.Context, productIDs []string) (map[string][]model.AttributeGroup, error)
}
