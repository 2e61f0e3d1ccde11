package model

import "github.com/shopspring/decimal"

// カートの1行。スナップショットのJSONはこの形のまま保存する。
// quantity は常に1以上（0になる前に行ごと消す）。
type CartLine struct {
	ProductID      string             `json:"id"`
	Name           string             `json:"product_name"`
	Quantity       int                `json:"quantity"`
	UnitPrice      decimal.Decimal    `json:"amount"`
	CurrencySymbol string             `json:"symbol"`
	ImageURL       string             `json:"image"`
	Attributes     AttributeSelection `json:"attributes"`
}

func (l CartLine) Identity() LineIdentity {
	return IdentityOf(l.ProductID, l.Attributes)
}

// 小計（数量×単価）
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// 価格・表示名などの付帯情報（add時に渡す）
type PriceInfo struct {
	Amount         decimal.Decimal
	CurrencySymbol string
}

type DisplayInfo struct {
	Name     string
	ImageURL string
}

// 集計値。保存はせず、毎回全件から計算する。
type CartTotals struct {
	Quantity int             `json:"total_quantity"`
	Price    decimal.Decimal `json:"total_price"`
}
