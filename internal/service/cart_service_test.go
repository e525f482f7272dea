package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/cart"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

func tomatoAndRice() *fakeProductRepo {
	return newFakeProductRepo(
		&product.Product{ID: 1, Name: "Fresh Tomatoes", Price: 40, Unit: "kg", Category: product.CategoryVegetables, Stock: 15, Status: 1},
		&product.Product{ID: 2, Name: "Basmati Rice", Price: 120, Unit: "kg", Category: product.CategoryGrains, Stock: 50, Status: 1},
		&product.Product{ID: 3, Name: "Old Soap", Price: 20, Unit: "pack", Category: product.CategoryHousehold, Stock: 5, Status: 0},
	)
}

func newCartService(repo *fakeProductRepo) *CartService {
	return NewCartService(cart.NewManager(nil), repo, nil)
}

func TestCartServiceAdd(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(tomatoAndRice())

	require.NoError(t, svc.Add(ctx, 1, 1))
	require.NoError(t, svc.Add(ctx, 1, 1))
	require.NoError(t, svc.Add(ctx, 1, 2))

	lines, subtotal, fee, total := svc.Summary(ctx, 1)
	require.Len(t, lines, 2)
	assert.Equal(t, "Fresh Tomatoes", lines[0].Name)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, int64(2*40+120), subtotal)
	assert.Equal(t, int64(40), fee)
	assert.Equal(t, subtotal+fee, total)
}

func TestCartServiceAddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(tomatoAndRice())

	err := svc.Add(ctx, 1, 999)
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
	assert.Equal(t, int64(0), svc.Count(ctx, 1))
}

func TestCartServiceAddOfflineProduct(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(tomatoAndRice())

	// 已下架商品按不存在处理
	err := svc.Add(ctx, 1, 3)
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
}

func TestCartServiceCheckout(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(tomatoAndRice())

	require.NoError(t, svc.Add(ctx, 1, 1))
	require.NoError(t, svc.Add(ctx, 1, 2))

	o, err := svc.Checkout(ctx, 1, "Guest User")
	require.NoError(t, err)
	assert.Equal(t, int64(160), o.Total)
	assert.Equal(t, int64(0), svc.Count(ctx, 1))

	orders := svc.Orders(ctx, 1)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
}

func TestCartServiceCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(tomatoAndRice())

	_, err := svc.Checkout(ctx, 1, "Guest User")
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCartServiceCheckoutInsufficientStock(t *testing.T) {
	ctx := context.Background()
	repo := tomatoAndRice()
	svc := newCartService(repo)

	require.NoError(t, svc.Add(ctx, 1, 1))
	for i := 0; i < 20; i++ {
		svc.UpdateQuantity(ctx, 1, 1, 1)
	}

	// 购物车 21 件，库存只有 15
	_, err := svc.Checkout(ctx, 1, "Guest User")
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)
	// 失败的结算不动购物车，也不产生订单
	assert.Equal(t, int64(21), svc.Count(ctx, 1))
	assert.Empty(t, svc.Orders(ctx, 1))
}

func TestCartServiceUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(tomatoAndRice())

	require.NoError(t, svc.Add(ctx, 1, 1))
	require.NoError(t, svc.Add(ctx, 2, 2))

	assert.Equal(t, int64(1), svc.Count(ctx, 1))
	assert.Equal(t, int64(1), svc.Count(ctx, 2))

	svc.Clear(ctx, 1)
	assert.Equal(t, int64(0), svc.Count(ctx, 1))
	assert.Equal(t, int64(1), svc.Count(ctx, 2))
}
