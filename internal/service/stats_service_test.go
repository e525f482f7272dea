package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/order"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

func TestStatsDashboard(t *testing.T) {
	repo := newFakeProductRepo(
		&product.Product{ID: 1, Name: "Basmati Rice", Price: 120, Category: product.CategoryGrains, Stock: 50, Status: 1},
		&product.Product{ID: 2, Name: "Bananas", Price: 60, Category: product.CategoryFruits, Stock: 12, Status: 1},
		&product.Product{ID: 3, Name: "Detergent Powder", Price: 250, Category: product.CategoryHousehold, Stock: 10, Status: 1},
		&product.Product{ID: 4, Name: "Lentils", Price: 110, Category: product.CategoryGrains, Stock: 30, Status: 1},
	)
	orders := &fakeOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), &order.Order{ID: "o-1", UserID: 1, Total: 160, Status: order.StatusPending}))
	require.NoError(t, orders.Create(context.Background(), &order.Order{ID: "o-2", UserID: 2, Total: 520, Status: order.StatusPending}))

	svc := NewStatsService(repo, orders)
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalProducts)
	// 库存 < 15 的有 Bananas(12) 和 Detergent(10)
	assert.Equal(t, int64(2), stats.LowStockItems)
	assert.Equal(t, int64(120*50+60*12+250*10+110*30), stats.InventoryValue)

	// 分类按固定顺序输出，且只含有商品的分类
	require.Len(t, stats.Categories, 3)
	assert.Equal(t, product.CategoryFruits, stats.Categories[0].Category)
	assert.Equal(t, int64(1), stats.Categories[0].Count)
	assert.Equal(t, product.CategoryGrains, stats.Categories[1].Category)
	assert.Equal(t, int64(2), stats.Categories[1].Count)
	assert.Equal(t, product.CategoryHousehold, stats.Categories[2].Category)

	// 最近订单倒序
	require.Len(t, stats.RecentOrders, 2)
	assert.Equal(t, "o-2", stats.RecentOrders[0].ID)
}

func TestProductServiceBrowse(t *testing.T) {
	svc := NewProductService(tomatoAndRice())
	ctx := context.Background()

	all, err := svc.Browse(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2) // 下架的不出现

	grains, err := svc.Browse(ctx, product.CategoryGrains, "")
	require.NoError(t, err)
	require.Len(t, grains, 1)
	assert.Equal(t, "Basmati Rice", grains[0].Name)

	byKeyword, err := svc.Browse(ctx, "", "toma")
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, "Fresh Tomatoes", byKeyword[0].Name)

	none, err := svc.Browse(ctx, product.CategoryGrains, "tomato")
	require.NoError(t, err)
	assert.Empty(t, none)
}
