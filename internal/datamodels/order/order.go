package order

import (
	"context"
	"encoding/json"
	"time"
)

// 订单状态。当前仅 checkout 会创建 Pending 订单，
// 状态流转归属后续的履约模块，这里只建模取值。
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Order 订单落库模型，供后台查询；行项目快照整体存成 JSON 列
type Order struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	UserID       int64           `gorm:"index;not null" json:"user_id"`
	CustomerName string          `gorm:"size:64" json:"customer_name"`
	Total        int64           `gorm:"not null" json:"total"` // 下单时的小计，不含运费
	Status       string          `gorm:"size:16;index;not null" json:"status"`
	Items        json.RawMessage `gorm:"type:json" json:"items"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
}
