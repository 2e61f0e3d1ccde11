package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文送信（成功したらカートを空にするのは呼び出し側の責務）
type OrderGateway interface {
	SubmitOrder(ctx context.Context, lines []model.OrderLine) (model.OrderAck, error)
}
