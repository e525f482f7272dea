package service

import (
	"context"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/order"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

// 库存低于该值的商品计入低库存告警
const lowStockThreshold = 15

// CategoryCount 某个分类下的商品数量，给仪表盘的分布图用
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DashboardStats 后台仪表盘数据：卡片数字 + 图表数据源
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockItems  int64           `json:"low_stock_items"`
	InventoryValue int64           `json:"inventory_value"` // Σ 单价×库存
	Categories     []CategoryCount `json:"categories"`
	RecentOrders   []*order.Order  `json:"recent_orders"`
}

// StatsService 汇总仪表盘统计
type StatsService struct {
	productRepo product.Repository
	orderRepo   order.Repository
}

// NewStatsService 创建统计服务
func NewStatsService(productRepo product.Repository, orderRepo order.Repository) *StatsService {
	return &StatsService{productRepo: productRepo, orderRepo: orderRepo}
}

// Dashboard 一次性汇总仪表盘所需的全部数字
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		GetMonitor().RecordDBError()
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts: int64(len(products)),
	}
	counts := make(map[string]int64)
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			stats.LowStockItems++
		}
		stats.InventoryValue += p.Price * p.Stock
		counts[p.Category]++
	}
	// 固定分类顺序输出，图表颜色才稳定
	for _, c := range product.Categories() {
		if counts[c] == 0 {
			continue
		}
		stats.Categories = append(stats.Categories, CategoryCount{Category: c, Count: counts[c]})
	}

	recent, err := s.orderRepo.ListRecent(ctx, 10)
	if err != nil {
		GetMonitor().RecordDBError()
		return nil, err
	}
	stats.RecentOrders = recent
	return stats, nil
}
