package model

import "github.com/shopspring/decimal"

type AttributeType string

const (
	AttributeTypeText   AttributeType = "text"
	AttributeTypeSwatch AttributeType = "swatch"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AttributeItem struct {
	ID           string `json:"id"`
	DisplayValue string `json:"display_value"`
	Value        string `json:"item_value"`
}

// 属性グループ（例: Size, Color）
type AttributeGroup struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  AttributeType   `json:"type"`
	Items []AttributeItem `json:"items"`
}

type Currency struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// カタログ側で currency が欠けることがあるのでポインタ
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency *Currency       `json:"currency,omitempty"`
}

type GalleryImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	InStock     bool             `json:"in_stock"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	Gallery     []GalleryImage   `json:"gallery"`
	Attributes  []AttributeGroup `json:"attributes"`
	Prices      []Price          `json:"prices"`
}

// 先頭の価格。無ければ 0 / "" にフォールバック。
func (p Product) PrimaryPrice() PriceInfo {
	if len(p.Prices) == 0 {
		return PriceInfo{Amount: decimal.Zero}
	}
	first := p.Prices[0]
	info := PriceInfo{Amount: first.Amount}
	if first.Currency != nil {
		info.CurrencySymbol = first.Currency.Symbol
	}
	return info
}

func (p Product) PrimaryImageURL() string {
	if len(p.Gallery) == 0 {
		return ""
	}
	return p.Gallery[0].URL
}

func (p Product) Display() DisplayInfo {
	return DisplayInfo{Name: p.Name, ImageURL: p.PrimaryImageURL()}
}

// 商品詳細を開いたときの選択状態。未選択は空文字。
type SelectionState map[string]string

// 属性グループごとに空の選択を1つずつ用意する
func NewSelectionState(p Product) SelectionState {
	s := make(SelectionState, len(p.Attributes))
	for _, g := range p.Attributes {
		s[g.ID] = ""
	}
	return s
}

func (s SelectionState) Selection() AttributeSelection {
	out := make(AttributeSelection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
