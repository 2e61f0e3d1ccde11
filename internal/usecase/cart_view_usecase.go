package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// カート表示用。カート内の商品の属性メタデータを取り直して、選択中の値に印を付ける。
type CartViewUsecase struct {
	cart     *CartUsecase
	catalog  repo.CatalogRepository
	notifier *Notifier
}

// DI
func NewCartViewUsecase(cart *CartUsecase, catalog repo.CatalogRepository, notifier *Notifier) *CartViewUsecase {
	return &CartViewUsecase{cart: cart, catalog: catalog, notifier: notifier}
}

type CartAttributeItemView struct {
	DisplayValue string `json:"display_value"`
	Value        string `json:"item_value"`
	Selected     bool   `json:"selected"`
}

type CartAttributeGroupView struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Type  model.AttributeType     `json:"type"`
	Items []CartAttributeItemView `json:"items"`
}

type CartLineView struct {
	CartItemResponse
	AttributeGroups []CartAttributeGroupView `json:"attribute_groups"`
}

type CartViewResponse struct {
	Items         []CartLineView `json:"items"`
	TotalQuantity int            `json:"total_quantity"`
	TotalPrice    string         `json:"total_price"`
	ItemsLabel    string         `json:"items_label"`
	Badge         string         `json:"badge"`
}

// カタログが落ちていても明細と合計は返す（属性は空、通知にエラー）
func (u *CartViewUsecase) View(ctx context.Context) CartViewResponse {
	snap := u.cart.Snapshot()

	groups := u.fetchAttributes(ctx, snap.Items)

	items := make([]CartLineView, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, CartLineView{
			CartItemResponse: it,
			AttributeGroups:  markSelected(groups[it.ProductID], it.Attributes),
		})
	}

	return CartViewResponse{
		Items:         items,
		TotalQuantity: snap.TotalQuantity,
		TotalPrice:    snap.TotalPrice,
		ItemsLabel:    snap.ItemsLabel,
		Badge:         snap.Badge,
	}
}

// カート内の商品をまとめて1回で取りに行く
func (u *CartViewUsecase) fetchAttributes(ctx context.Context, items []CartItemResponse) map[string][]model.AttributeGroup {
	ids := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	if len(ids) == 0 {
		return map[string][]model.AttributeGroup{}
	}

	groups, err := u.catalog.FindAttributesByProduct(ctx, ids)
	if err != nil {
		_ = catalogFailure(u.notifier, err)
		return map[string][]model.AttributeGroup{}
	}
	return groups
}

func markSelected(groups []model.AttributeGroup, selected model.AttributeSelection) []CartAttributeGroupView {
	out := make([]CartAttributeGroupView, 0, len(groups))
	for _, g := range groups {
		items := make([]CartAttributeItemView, 0, len(g.Items))
		for _, it := range g.Items {
			items = append(items, CartAttributeItemView{
				DisplayValue: it.DisplayValue,
				Value:        it.Value,
				Selected:     selected[g.ID] == it.Value,
			})
		}
		out = append(out, CartAttributeGroupView{ID: g.ID, Name: g.Name, Type: g.Type, Items: items})
	}
	return out
}
