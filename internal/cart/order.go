package cart

import (
	"time"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/order"
)

// Order 结算产生的订单快照：账本里的条目一经创建不再修改，
// 状态流转留给履约方，这里所有订单都以 Pending 创建。
type Order struct {
	ID           string    `json:"id"`
	Items        []Line    `json:"items"`
	Total        int64     `json:"total"` // 下单时点小计，不含运费
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	CreatedAt    time.Time `json:"date"`
}

func newOrder(id string, items []Line, customer string, at time.Time) Order {
	return Order{
		ID:           id,
		Items:        items,
		Total:        Subtotal(items),
		Status:       order.StatusPending,
		CustomerName: customer,
		CreatedAt:    at,
	}
}
