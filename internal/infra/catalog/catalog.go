package catalog

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	_ repo.CatalogRepository = (*Client)(nil)
	_ repo.OrderGateway      = (*Client)(nil)
)

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var data struct {
		Categories []wireCategory `json:"categories"`
	}
	if err := c.do(ctx, pathCategories, queryCategories, nil, &data); err != nil {
		return nil, err
	}

	out := make([]model.Category, 0, len(data.Categories))
	for _, w := range data.Categories {
		out = append(out, w.toModel())
	}
	return out, nil
}

// categoryName はカタログ側の表記（例: "All", "Clothes"）
func (c *Client) ListCategoryProducts(ctx context.Context, categoryName string) ([]model.Product, error) {
	var data struct {
		Category []wireProduct `json:"category"`
	}
	vars := map[string]interface{}{"name": categoryName}
	if err := c.do(ctx, pathGraphQL, queryCategoryProducts, vars, &data); err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, len(data.Category))
	for _, w := range data.Category {
		out = append(out, w.toModel())
	}
	return out, nil
}

func (c *Client) FindProduct(ctx context.Context, productID string) (model.Product, error) {
	var data struct {
		Product *wireProduct `json:"product"`
	}
	vars := map[string]interface{}{"id": productID}
	if err := c.do(ctx, pathGraphQL, queryProduct, vars, &data); err != nil {
		return model.Product{}, err
	}
	if data.Product == nil {
		return model.Product{}, repo.ErrNotFound
	}
	return data.Product.toModel(), nil
}

// "all" カテゴリを1回だけ引いて、指定された商品の属性だけを返す
func (c *Client) FindAttributesByProduct(ctx context.Context, productIDs []string) (map[string][]model.AttributeGroup, error) {
	out := make(map[string][]model.AttributeGroup, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var data struct {
		Category []wireProduct `json:"category"`
	}
	if err := c.do(ctx, pathGraphQL, queryCartAttributes, nil, &data); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	for _, w := range data.Category {
		id := string(w.ID)
		if _, ok := wanted[id]; ok {
			out[id] = toAttributeGroups(w.Attributes)
		}
	}
	return out, nil
}

func (c *Client) SubmitOrder(ctx context.Context, lines []model.OrderLine) (model.OrderAck, error) {
	input := make([]wireOrderInput, 0, len(lines))
	for _, l := range lines {
		input = append(input, wireOrderInput{
			ID:          l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			Amount:      l.Amount.InexactFloat64(),
		})
	}

	var data struct {
		Order *wireOrderAck `json:"order"`
	}
	vars := map[string]interface{}{"input": input}
	if err := c.mutate(ctx, pathGraphQL, mutationOrder, vars, &data); err != nil {
		return model.OrderAck{}, err
	}
	if data.Order == nil {
		return model.OrderAck{}, &QueryError{Messages: []string{"order not created"}}
	}

	ack := model.OrderAck{
		ID:          string(data.Order.ID),
		TotalAmount: decimal.Zero,
		CreatedAt:   string(data.Order.CreatedAt),
	}
	if data.Order.TotalAmount != nil {
		ack.TotalAmount = *data.Order.TotalAmount
	}
	return ack, nil
}
