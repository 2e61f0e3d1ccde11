package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/platform/logger"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はメモリ上のカート（唯一の正）とスナップショット保存をまとめたもの。
// 変更は必ず「次の状態を作る→保存→成功したら反映」の順。保存に失敗したら何も起きなかった扱い。
type CartUsecase struct {
	mu        sync.Mutex
	store     repo.CartSnapshotRepository
	lines     []model.CartLine
	index     map[string]int // 明細キー → lines の位置
	listeners []func(model.CartTotals)
	log       *logger.Logger
}

// DI
func NewCartUsecase(store repo.CartSnapshotRepository, log *logger.Logger) *CartUsecase {
	return &CartUsecase{
		store: store,
		lines: []model.CartLine{},
		index: map[string]int{},
		log:   log.With("component", "CartUsecase"),
	}
}

type CartItemResponse struct {
	Key            string                   `json:"key"`
	ProductID      string                   `json:"product_id"`
	Name           string                   `json:"name"`
	Quantity       int                      `json:"quantity"`
	UnitPrice      string                   `json:"unit_price"`
	CurrencySymbol string                   `json:"currency_symbol"`
	ImageURL       string                   `json:"image_url"`
	Attributes     model.AttributeSelection `json:"attributes"`
	Subtotal       string                   `json:"subtotal"`
}

type CartResponse struct {
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	TotalPrice    string             `json:"total_price"`
	ItemsLabel    string             `json:"items_label"`
	Badge         string             `json:"badge"`
}

type AddLineInput struct {
	Identity model.LineIdentity
	Quantity int
	Price    model.PriceInfo
	Display  model.DisplayInfo
}

// 起動時に1回だけ読む
func (u *CartUsecase) Hydrate(ctx context.Context) {
	lines := u.store.Load(ctx)

	u.mu.Lock()
	u.setLocked(lines)
	totals := totalsOf(u.lines)
	u.mu.Unlock()

	u.log.Info("cart hydrated", "lines", len(lines), "total_quantity", totals.Quantity)
}

// 集計値が変わったときに呼ばれる
func (u *CartUsecase) OnChange(fn func(model.CartTotals)) {
	u.mu.Lock()
	u.listeners = append(u.listeners, fn)
	u.mu.Unlock()
}

// Add は同じ明細があれば数量を足し、無ければ末尾に追加する。
// quantity <= 0 は何もしない。
func (u *CartUsecase) Add(ctx context.Context, in AddLineInput) (CartResponse, error) {
	if strings.TrimSpace(in.Identity.ProductID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	return u.mutate(ctx, "add", func(lines []model.CartLine, index map[string]int) ([]model.CartLine, bool) {
		if in.Quantity <= 0 {
			return lines, false
		}

		if i, ok := index[in.Identity.Key()]; ok {
			lines[i].Quantity += in.Quantity
			return lines, true
		}

		amount := in.Price.Amount
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		id := model.IdentityOf(in.Identity.ProductID, in.Identity.Attributes)
		return append(lines, model.CartLine{
			ProductID:      id.ProductID,
			Name:           in.Display.Name,
			Quantity:       in.Quantity,
			UnitPrice:      amount,
			CurrencySymbol: in.Price.CurrencySymbol,
			ImageURL:       in.Display.ImageURL,
			Attributes:     id.Attributes,
		}), true
	})
}

func (u *CartUsecase) Increment(ctx context.Context, id model.LineIdentity) (CartResponse, error) {
	return u.mutate(ctx, "increment", func(lines []model.CartLine, index map[string]int) ([]model.CartLine, bool) {
		i, ok := index[id.Key()]
		if !ok {
			return lines, false
		}
		lines[i].Quantity++
		return lines, true
	})
}

// 1から減らすときは行ごと消す（数量0の行は作らない）
func (u *CartUsecase) Decrement(ctx context.Context, id model.LineIdentity) (CartResponse, error) {
	return u.mutate(ctx, "decrement", func(lines []model.CartLine, index map[string]int) ([]model.CartLine, bool) {
		i, ok := index[id.Key()]
		if !ok {
			return lines, false
		}
		if lines[i].Quantity > 1 {
			lines[i].Quantity--
			return lines, true
		}
		return removeAt(lines, i), true
	})
}

func (u *CartUsecase) Remove(ctx context.Context, id model.LineIdentity) (CartResponse, error) {
	return u.mutate(ctx, "remove", func(lines []model.CartLine, index map[string]int) ([]model.CartLine, bool) {
		i, ok := index[id.Key()]
		if !ok {
			return lines, false
		}
		return removeAt(lines, i), true
	})
}

// 注文成功後に使う。注文済みの明細だけ数量を差し引き、送信中に追加・増量された分は残す。
func (u *CartUsecase) Settle(ctx context.Context, ordered []model.CartLine) (CartResponse, error) {
	return u.mutate(ctx, "settle", func(lines []model.CartLine, index map[string]int) ([]model.CartLine, bool) {
		changed := false
		for _, o := range ordered {
			i, ok := index[o.Identity().Key()]
			if !ok || o.Quantity <= 0 {
				continue
			}
			lines[i].Quantity -= o.Quantity
			changed = true
		}
		if !changed {
			return lines, false
		}

		kept := lines[:0]
		for _, l := range lines {
			if l.Quantity > 0 {
				kept = append(kept, l)
			}
		}
		return kept, true
	})
}

// 毎回全件をたどって計算する
func (u *CartUsecase) Totals() model.CartTotals {
	u.mu.Lock()
	defer u.mu.Unlock()
	return totalsOf(u.lines)
}

// コピーを返す
func (u *CartUsecase) Lines() []model.CartLine {
	u.mu.Lock()
	defer u.mu.Unlock()
	return cloneLines(u.lines)
}

func (u *CartUsecase) Snapshot() CartResponse {
	u.mu.Lock()
	defer u.mu.Unlock()
	return buildCartResponse(u.lines)
}

type mutation func(lines []model.CartLine, index map[string]int) ([]model.CartLine, bool)

func (u *CartUsecase) mutate(ctx context.Context, op string, fn mutation) (CartResponse, error) {
	u.mu.Lock()

	next, changed := fn(cloneLines(u.lines), u.index)
	if !changed {
		resp := buildCartResponse(u.lines)
		u.mu.Unlock()
		return resp, nil
	}

	if err := u.persist(ctx, next); err != nil {
		u.mu.Unlock()
		u.log.Error("cart snapshot write failed", "op", op, "error", err)
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	u.setLocked(next)
	totals := totalsOf(u.lines)
	resp := buildCartResponse(u.lines)
	listeners := append([]func(model.CartTotals){}, u.listeners...)
	u.mu.Unlock()

	u.log.Debug("cart changed", "op", op, "lines", len(resp.Items), "total_quantity", totals.Quantity)
	for _, fn := range listeners {
		fn(totals)
	}
	return resp, nil
}

// 空になったらスロットごと消す
func (u *CartUsecase) persist(ctx context.Context, lines []model.CartLine) error {
	if len(lines) == 0 {
		return u.store.Clear(ctx)
	}
	return u.store.Save(ctx, lines)
}

func (u *CartUsecase) setLocked(lines []model.CartLine) {
	if lines == nil {
		lines = []model.CartLine{}
	}
	u.lines = lines
	u.index = make(map[string]int, len(lines))
	for i, l := range lines {
		u.index[l.Identity().Key()] = i
	}
}

func removeAt(lines []model.CartLine, i int) []model.CartLine {
	return append(lines[:i], lines[i+1:]...)
}

func cloneLines(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	for i, l := range lines {
		l.Attributes = model.IdentityOf(l.ProductID, l.Attributes).Attributes
		out[i] = l
	}
	return out
}

func totalsOf(lines []model.CartLine) model.CartTotals {
	t := model.CartTotals{Price: decimal.Zero}
	for _, l := range lines {
		t.Quantity += l.Quantity
		t.Price = t.Price.Add(l.Subtotal())
	}
	return t
}

func buildCartResponse(lines []model.CartLine) CartResponse {
	items := make([]CartItemResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, toCartItemResponse(l))
	}

	totals := totalsOf(lines)
	return CartResponse{
		Items:         items,
		TotalQuantity: totals.Quantity,
		TotalPrice:    totals.Price.StringFixed(2),
		ItemsLabel:    ItemsLabel(totals.Quantity),
		Badge:         Badge(totals.Quantity),
	}
}

func toCartItemResponse(l model.CartLine) CartItemResponse {
	return CartItemResponse{
		Key:            l.Identity().Key(),
		ProductID:      l.ProductID,
		Name:           l.Name,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice.String(),
		CurrencySymbol: l.CurrencySymbol,
		ImageURL:       l.ImageURL,
		Attributes:     model.IdentityOf(l.ProductID, l.Attributes).Attributes,
		Subtotal:       l.Subtotal().StringFixed(2),
	}
}

// "1 item" / "3 items"
func ItemsLabel(quantity int) string {
	if quantity > 1 {
		return fmt.Sprintf("%d items", quantity)
	}
	return fmt.Sprintf("%d item", quantity)
}

// ヘッダーのバッジ。0なら出さない、100以上は "99+"。
func Badge(quantity int) string {
	switch {
	case quantity <= 0:
		return ""
	case quantity > 99:
		return "99+"
	default:
		return fmt.Sprintf("%d", quantity)
	}
}
