package usecase

import (
	"context"
	"net/http"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/platform/logger"
	repo "storefront/internal/repository"
)

const MsgOrderPlaced = "order placed successfully"

type OrderUsecase struct {
	// 同じカートを二重に送らない
	mu sync.Mutex

	orders   repo.OrderGateway
	cart     *CartUsecase
	notifier *Notifier
	log      *logger.Logger
}

func NewOrderUsecase(orders repo.OrderGateway, cart *CartUsecase, notifier *Notifier, log *logger.Logger) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		cart:     cart,
		notifier: notifier,
		log:      log.With("component", "OrderUsecase"),
	}
}

type OrderOutput struct {
	Order model.OrderAck `json:"order"`
	Cart  CartResponse   `json:"cart"`
}

// PlaceOrder はカートの明細を送信し、成功したら送った分だけカートから差し引く。
// 失敗したときカートはそのまま残る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context) (OrderOutput, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	lines := u.cart.Lines()
	if len(lines) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	orderLines := make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		orderLines = append(orderLines, model.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Amount:    l.UnitPrice,
		})
	}

	ack, err := u.orders.SubmitOrder(ctx, orderLines)
	if err != nil {
		u.log.Warn("order submission failed", "lines", len(orderLines), "error", err)
		return OrderOutput{}, catalogFailure(u.notifier, err)
	}

	cart, err := u.cart.Settle(ctx, lines)
	if err != nil {
		// 注文は通っているので、通知だけ出して注文結果は返す
		u.notifier.CaughtError(err)
		return OrderOutput{Order: ack, Cart: u.cart.Snapshot()}, nil
	}

	u.log.Info("order placed", "order_id", ack.ID, "total_amount", ack.TotalAmount.String())
	u.notifier.Success(MsgOrderPlaced)
	return OrderOutput{Order: ack, Cart: cart}, nil
}
