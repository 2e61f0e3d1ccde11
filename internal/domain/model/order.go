package model

import "github.com/shopspring/decimal"

// 注文送信用の明細
type OrderLine struct {
	ProductID string
	Name      string
	Quantity  int
	Amount    decimal.Decimal
}

// 注文作成の応答
type OrderAck struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   string          `json:"created_at"`
}
