package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 通知に出す文言
const (
	MsgAddedToCart         = "item added to cart successfully"
	MsgIncompleteSelection = "Please make sure all the attributes are selected."
	MsgOutOfStock          = "This product is out of stock."
)

// 2xx以外の応答を表すエラー（catalog.StatusError など）
type statusCoder interface {
	StatusCode() int
}

// カタログ呼び出しの失敗を通知に出し、502として返す
func catalogFailure(n *Notifier, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		n.Error("Error: product not found")
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return NewHTTPError(http.StatusBadGateway, n.ServerError(sc.StatusCode()))
	}
	return NewHTTPError(http.StatusBadGateway, n.CaughtError(err))
}

// 開いている商品詳細（1つだけ）
type productView struct {
	product   model.Product
	selection model.SelectionState
}

type ProductUsecase struct {
	catalog    repo.CatalogRepository
	cart       *CartUsecase
	categories *CategoryUsecase
	notifier   *Notifier
	views      *ViewTracker

	mu   sync.Mutex
	open *productView
}

// DI
func NewProductUsecase(
	catalog repo.CatalogRepository,
	cart *CartUsecase,
	categories *CategoryUsecase,
	notifier *Notifier,
	views *ViewTracker,
) *ProductUsecase {
	return &ProductUsecase{
		catalog:    catalog,
		cart:       cart,
		categories: categories,
		notifier:   notifier,
		views:      views,
	}
}

type ProductCardResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	InStock        bool   `json:"in_stock"`
	ImageURL       string `json:"image_url"`
	Price          string `json:"price"`
	CurrencySymbol string `json:"currency_symbol"`
	Path           string `json:"path"`
}

type ProductListOutput struct {
	Category string                `json:"category"`
	Title    string                `json:"title"`
	Items    []ProductCardResponse `json:"items"`
}

type ProductDetailOutput struct {
	Product     model.Product        `json:"product"`
	Selection   model.SelectionState `json:"selection"`
	Complete    bool                 `json:"complete"`
	Purchasable bool                 `json:"purchasable"`
}

// 一覧（"/" と "/:category"）
func (u *ProductUsecase) ListCategoryProducts(ctx context.Context, pathCategory string) (ProductListOutput, error) {
	pathCategory = strings.ToLower(strings.TrimSpace(pathCategory))
	token := u.views.Begin("category:" + pathCategory)

	products, err := u.catalog.ListCategoryProducts(ctx, CategoryQueryName(pathCategory))
	if err != nil {
		return ProductListOutput{}, u.viewFailure(token, err)
	}
	if !u.views.CommitIfCurrent(token, func() { u.categories.SetCurrent(pathCategory) }) {
		return ProductListOutput{}, errStaleView()
	}

	items := make([]ProductCardResponse, 0, len(products))
	for _, p := range products {
		price := p.PrimaryPrice()
		items = append(items, ProductCardResponse{
			ID:             p.ID,
			Name:           p.Name,
			InStock:        p.InStock,
			ImageURL:       p.PrimaryImageURL(),
			Price:          price.Amount.StringFixed(2),
			CurrencySymbol: price.CurrencySymbol,
			Path:           "/products/" + p.ID,
		})
	}

	title := pathCategory
	if title == "" {
		title = CategoryQueryName("")
	}
	return ProductListOutput{Category: u.categories.Current(), Title: title, Items: items}, nil
}

// 商品詳細を開く。選択状態は毎回まっさらにする。
// 取得中に別の画面へ移っていたら応答は捨てる（状態は触らない）。
func (u *ProductUsecase) OpenProduct(ctx context.Context, productID string) (ProductDetailOutput, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	token := u.views.Begin("product:" + productID)

	p, err := u.catalog.FindProduct(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, u.viewFailure(token, err)
	}

	var out ProductDetailOutput
	committed := u.views.CommitIfCurrent(token, func() {
		u.mu.Lock()
		defer u.mu.Unlock()

		u.open = &productView{product: p, selection: model.NewSelectionState(p)}
		out = u.detailLocked()
	})
	if !committed {
		return ProductDetailOutput{}, errStaleView()
	}
	return out, nil
}

func errStaleView() error {
	return NewHTTPError(http.StatusConflict, "stale view")
}

// 古くなった応答の失敗は通知に出さない（今の画面の通知を上書きしない）
func (u *ProductUsecase) viewFailure(token string, err error) error {
	if !u.views.IsCurrent(token) {
		return errStaleView()
	}
	return catalogFailure(u.notifier, err)
}

// 1つの属性グループの値を選ぶ（空文字で解除）
func (u *ProductUsecase) SelectAttribute(productID string, groupID string, value string) (ProductDetailOutput, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.requireOpenLocked(productID); err != nil {
		return ProductDetailOutput{}, err
	}
	if err := validator.ValidateAttributeChoice(u.open.product, groupID, value); err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u.open.selection[groupID] = value
	return u.detailLocked(), nil
}

// 詳細画面からの追加。選択が揃っていて在庫があるときだけ。
func (u *ProductUsecase) AddSelectedToCart(ctx context.Context, productID string, quantity int) (CartResponse, error) {
	u.mu.Lock()
	if err := u.requireOpenLocked(productID); err != nil {
		u.mu.Unlock()
		return CartResponse{}, err
	}
	p := u.open.product
	selection := u.open.selection.Selection()
	u.mu.Unlock()

	if err := validator.ValidateAddToCart(p, model.SelectionState(selection)); err != nil {
		return CartResponse{}, u.rejectAdd(err)
	}

	return u.addToCart(ctx, p, selection, quantity)
}

// 一覧からのクイック追加。各属性の先頭の値で入れる。
func (u *ProductUsecase) QuickAdd(ctx context.Context, productID string) (CartResponse, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.FindProduct(ctx, productID)
	if err != nil {
		return CartResponse{}, catalogFailure(u.notifier, err)
	}
	if !p.InStock {
		return CartResponse{}, u.rejectAdd(validator.ErrOutOfStock)
	}

	return u.addToCart(ctx, p, validator.DefaultSelection(p), 1)
}

func (u *ProductUsecase) addToCart(ctx context.Context, p model.Product, selection model.AttributeSelection, quantity int) (CartResponse, error) {
	// 0以下は何もしない（通知も出さない）
	if quantity <= 0 {
		return u.cart.Snapshot(), nil
	}

	// 前のエラー表示は消す
	u.notifier.Dismiss()

	out, err := u.cart.Add(ctx, AddLineInput{
		Identity: model.IdentityOf(p.ID, selection),
		Quantity: quantity,
		Price:    p.PrimaryPrice(),
		Display:  p.Display(),
	})
	if err != nil {
		u.notifier.CaughtError(errors.New("could not save the cart"))
		return CartResponse{}, err
	}

	u.notifier.Success(MsgAddedToCart)
	return out, nil
}

func (u *ProductUsecase) rejectAdd(err error) error {
	switch {
	case errors.Is(err, validator.ErrIncompleteSelection):
		u.notifier.Error(MsgIncompleteSelection)
		return NewHTTPError(http.StatusBadRequest, MsgIncompleteSelection)
	case errors.Is(err, validator.ErrOutOfStock):
		u.notifier.Error(MsgOutOfStock)
		return NewHTTPError(http.StatusConflict, MsgOutOfStock)
	default:
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (u *ProductUsecase) requireOpenLocked(productID string) error {
	if u.open == nil || u.open.product.ID != productID {
		return NewHTTPError(http.StatusNotFound, "product view not open")
	}
	return nil
}

func (u *ProductUsecase) detailLocked() ProductDetailOutput {
	sel := model.SelectionState(u.open.selection.Selection())
	return ProductDetailOutput{
		Product:     u.open.product,
		Selection:   sel,
		Complete:    validator.IsComplete(sel),
		Purchasable: validator.IsPurchasable(u.open.product, sel),
	}
}
