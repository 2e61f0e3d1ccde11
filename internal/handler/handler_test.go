package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/handler"
	infrarepo "storefront/internal/infra/repository"
	"storefront/internal/platform/logger"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 固定データを返すカタログ
type stubCatalog struct {
	products map[string]model.Product
	orders   [][]model.OrderLine
	orderErr error
}

func (s *stubCatalog) ListCategories(context.Context) ([]model.Category, error) {
	return []model.Category{{ID: "1", Name: "all"}, {ID: "2", Name: "clothes"}}, nil
}

func (s *stubCatalog) ListCategoryProducts(_ context.Context, name string) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range s.products {
		if name == "All" || strings.EqualFold(p.Category, name) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalog) FindProduct(_ context.Context, id string) (model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (s *stubCatalog) FindAttributesByProduct(_ context.Context, ids []string) (map[string][]model.AttributeGroup, error) {
	out := map[string][]model.AttributeGroup{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p.Attributes
		}
	}
	return out, nil
}

func (s *stubCatalog) SubmitOrder(_ context.Context, lines []model.OrderLine) (model.OrderAck, error) {
	if s.orderErr != nil {
		return model.OrderAck{}, s.orderErr
	}
	s.orders = append(s.orders, lines)
	return model.OrderAck{ID: "1", TotalAmount: decimal.RequireFromString("10"), CreatedAt: "2026-10-15"}, nil
}

type testApp struct {
	e       *echo.Echo
	catalog *stubCatalog
	cart    *usecase.CartUsecase
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	catalog := &stubCatalog{products: map[string]model.Product{
		"jacket": {
			ID: "jacket", Name: "Jacket", InStock: true, Category: "clothes",
			Attributes: []model.AttributeGroup{{
				ID: "Size", Name: "Size", Type: model.AttributeTypeText,
				Items: []model.AttributeItem{{ID: "S", DisplayValue: "Small", Value: "S"}, {ID: "M", DisplayValue: "Medium", Value: "M"}},
			}},
			Prices: []model.Price{{Amount: decimal.RequireFromString("5.25"), Currency: &model.Currency{Label: "USD", Symbol: "$"}}},
		},
		"ps-5": {ID: "ps-5", Name: "PlayStation 5", InStock: false, Category: "tech"},
	}}

	log := logger.Nop()
	store := infrarepo.NewCartSnapshotStore(infrarepo.NewSlotMemoryStore(), "items", log)
	notifier := usecase.NewNotifier()
	cart := usecase.NewCartUsecase(store, log)
	categories := usecase.NewCategoryUsecase(catalog, notifier)
	products := usecase.NewProductUsecase(catalog, cart, categories, notifier, usecase.NewViewTracker())

	e := echo.New()
	handler.NewCategoryHandler(categories).RegisterRoutes(e)
	handler.NewCartHandler(cart, usecase.NewCartViewUsecase(cart, catalog, notifier)).RegisterRoutes(e)
	handler.NewOrderHandler(usecase.NewOrderUsecase(catalog, cart, notifier, log)).RegisterRoutes(e)
	handler.NewNotificationHandler(notifier).RegisterRoutes(e)
	handler.NewProductHandler(products, categories).RegisterRoutes(e)

	return &testApp{e: e, catalog: catalog, cart: cart}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// =====================
// Listing / categories
// =====================

func TestListing_SyncsCategory(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/clothes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[usecase.ProductListOutput](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "jacket", list.Items[0].ID)
	assert.Equal(t, "5.25", list.Items[0].Price)

	rec = a.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[usecase.CategoryListResponse](t, rec)
	assert.Equal(t, "clothes", cats.Current)
	assert.True(t, cats.Categories[1].Active)
	assert.False(t, cats.Categories[0].Active)
}

func TestListing_Root(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[usecase.ProductListOutput](t, rec)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, "all", list.Category)
}

// =====================
// Detail / add to cart
// =====================

func TestProductFlow_SelectAndAdd(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/products/jacket", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[usecase.ProductDetailOutput](t, rec).Complete)

	// 未選択のまま追加
	rec = a.do(t, http.MethodPost, "/products/jacket/cart", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(t, http.MethodGet, "/notification", "")
	n := decode[model.Notification](t, rec)
	assert.Equal(t, usecase.MsgIncompleteSelection, n.Message)
	assert.Equal(t, model.SeverityError, n.Severity)

	rec = a.do(t, http.MethodPut, "/products/jacket/selection", `{"group_id":"Size","value":"M"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[usecase.ProductDetailOutput](t, rec).Purchasable)

	rec = a.do(t, http.MethodPost, "/products/jacket/cart", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[usecase.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "10.50", cart.TotalPrice)

	rec = a.do(t, http.MethodGet, "/notification", "")
	assert.Equal(t, usecase.MsgAddedToCart, decode[model.Notification](t, rec).Message)
}

func TestProductFlow_ZeroQuantityIsNoop(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodGet, "/products/jacket", "")
	a.do(t, http.MethodPut, "/products/jacket/selection", `{"group_id":"Size","value":"M"}`)

	rec := a.do(t, http.MethodPost, "/products/jacket/cart", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[usecase.CartResponse](t, rec).Items)
	assert.Equal(t, 0, a.cart.Totals().Quantity)

	rec = a.do(t, http.MethodGet, "/notification", "")
	assert.False(t, decode[model.Notification](t, rec).Visible)

	// 省略時は1
	rec = a.do(t, http.MethodPost, "/products/jacket/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[usecase.CartResponse](t, rec).TotalQuantity)
}

func TestProduct_NotFound(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestSelection_MissingGroup(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodGet, "/products/jacket", "")

	rec := a.do(t, http.MethodPut, "/products/jacket/selection", `{"value":"M"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickAdd(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodPost, "/products/jacket/quick-add", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[usecase.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "S", cart.Items[0].Attributes["Size"])

	rec = a.do(t, http.MethodPost, "/products/ps-5/quick-add", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// =====================
// Cart lines
// =====================

func TestCartLines(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodPost, "/products/jacket/quick-add", "")

	rec := a.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[usecase.CartViewResponse](t, rec)
	require.Len(t, view.Items, 1)
	key := view.Items[0].Key
	require.Len(t, view.Items[0].AttributeGroups, 1)
	assert.True(t, view.Items[0].AttributeGroups[0].Items[0].Selected)
	assert.Equal(t, "1", view.Badge)

	rec = a.do(t, http.MethodPost, "/cart/lines/"+key+"/increment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[usecase.CartResponse](t, rec).TotalQuantity)

	rec = a.do(t, http.MethodPost, "/cart/lines/"+key+"/decrement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[usecase.CartResponse](t, rec).TotalQuantity)

	rec = a.do(t, http.MethodDelete, "/cart/lines/"+key, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[usecase.CartResponse](t, rec).Items)
}

func TestCartLines_InvalidKey(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodPost, "/cart/lines/!!!/increment", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodDelete, "/cart/lines/bm90LWpzb24", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =====================
// Orders / notification
// =====================

func TestPlaceOrder(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodPost, "/orders", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a.do(t, http.MethodPost, "/products/jacket/quick-add", "")
	rec = a.do(t, http.MethodPost, "/orders", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	out := decode[usecase.OrderOutput](t, rec)
	assert.Equal(t, "1", out.Order.ID)
	assert.Empty(t, out.Cart.Items)
	require.Len(t, a.catalog.orders, 1)
	assert.Equal(t, "jacket", a.catalog.orders[0][0].ProductID)
	assert.Equal(t, 0, a.cart.Totals().Quantity)
}

func TestNotification_Dismiss(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodPost, "/products/jacket/quick-add", "")

	rec := a.do(t, http.MethodDelete, "/notification", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/notification", "")
	assert.False(t, decode[model.Notification](t, rec).Visible)
}
