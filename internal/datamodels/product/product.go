package product

import (
	"context"
	"time"
)

// 商品分类固定集合，与前端筛选栏保持一致
const (
	CategoryVegetables = "Vegetables"
	CategoryFruits     = "Fruits"
	CategoryDairy      = "Dairy"
	CategoryGrains     = "Grains"
	CategorySnacks     = "Snacks"
	CategoryBeverages  = "Beverages"
	CategoryHousehold  = "Household"
)

// Categories 返回全部合法分类
func Categories() []string {
	return []string{
		CategoryVegetables,
		CategoryFruits,
		CategoryDairy,
		CategoryGrains,
		CategorySnacks,
		CategoryBeverages,
		CategoryHousehold,
	}
}

// ValidCategory 校验分类是否在固定集合内
func ValidCategory(c string) bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// Product 商品模型
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	Price       int64     `gorm:"not null" json:"price"` // 卢比（整数金额）
	Unit        string    `gorm:"size:16;not null" json:"unit"`
	Category    string    `gorm:"size:32;index" json:"category"`
	Stock       int64     `gorm:"not null" json:"stock"`
	Image       string    `gorm:"size:256" json:"image"`
	Status      int       `gorm:"index" json:"status"` // 0:下架 1:在售
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListOnline(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, category string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	// DecrementStock 原子扣减库存，库存不足时返回错误且不做任何扣减
	DecrementStock(ctx context.Context, id, qty int64) error
}
