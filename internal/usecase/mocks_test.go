package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/platform/logger"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]model.Category)
	return cats, args.Error(1)
}

func (m *CatalogRepoMock) ListCategoryProducts(ctx context.Context, name string) ([]model.Product, error) {
	args := m.Called(ctx, name)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogRepoMock) FindProduct(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogRepoMock) FindAttributesByProduct(ctx context.Context, ids []string) (map[string][]model.AttributeGroup, error) {
	args := m.Called(ctx, ids)
	groups, _ := args.Get(0).(map[string][]model.AttributeGroup)
	return groups, args.Error(1)
}

type OrderGatewayMock struct{ mock.Mock }

func (m *OrderGatewayMock) SubmitOrder(ctx context.Context, lines []model.OrderLine) (model.OrderAck, error) {
	args := m.Called(ctx, lines)
	ack, _ := args.Get(0).(model.OrderAck)
	return ack, args.Error(1)
}

// メモリ上のスナップショット。failSave を立てると保存が失敗する。
type fakeSnapshotStore struct {
	mu       sync.Mutex
	saved    []model.CartLine
	present  bool
	failSave bool
	saves    int
	clears   int
}

func (s *fakeSnapshotStore) Load(_ context.Context) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return []model.CartLine{}
	}
	return append([]model.CartLine{}, s.saved...)
}

func (s *fakeSnapshotStore) Save(_ context.Context, lines []model.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("disk full")
	}
	s.saves++
	s.saved = append([]model.CartLine{}, lines...)
	s.present = true
	return nil
}

func (s *fakeSnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("disk full")
	}
	s.clears++
	s.saved = nil
	s.present = false
	return nil
}

var _ repo.CartSnapshotRepository = (*fakeSnapshotStore)(nil)

// =====================
// Fixtures
// =====================

func usd(amount string) []model.Price {
	return []model.Price{{Amount: decimal.RequireFromString(amount), Currency: &model.Currency{Label: "USD", Symbol: "$"}}}
}

func sizeGroup(values ...string) model.AttributeGroup {
	g := model.AttributeGroup{ID: "Size", Name: "Size", Type: model.AttributeTypeText}
	for _, v := range values {
		g.Items = append(g.Items, model.AttributeItem{ID: v, DisplayValue: v, Value: v})
	}
	return g
}

func jacket() model.Product {
	return model.Product{
		ID:         "jacket-canada-goosee",
		Name:       "Jacket",
		InStock:    true,
		Category:   "clothes",
		Gallery:    []model.GalleryImage{{ID: "1", URL: "https://img/jacket.jpg"}},
		Attributes: []model.AttributeGroup{sizeGroup("S", "M", "L")},
		Prices:     usd("518.47"),
	}
}

func newCart(store repo.CartSnapshotRepository) *usecase.CartUsecase {
	return usecase.NewCartUsecase(store, logger.Nop())
}

func addInput(productID string, sel model.AttributeSelection, qty int, amount string) usecase.AddLineInput {
	return usecase.AddLineInput{
		Identity: model.IdentityOf(productID, sel),
		Quantity: qty,
		Price:    model.PriceInfo{Amount: decimal.RequireFromString(amount), CurrencySymbol: "$"},
		Display:  model.DisplayInfo{Name: productID},
	}
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "err=%v is not HTTPError", err) {
		assert.Equal(t, want, he.Status)
	}
}
