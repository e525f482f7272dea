package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineFixture(id int64, price int64) Line {
	return Line{
		ProductID: id,
		Name:      "item",
		Price:     price,
		Unit:      "kg",
		Category:  "Grains",
	}
}

func TestCartAddAndDecrement(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Subtotal())

	c.Add(lineFixture(1, 40))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1), c.Lines()[0].Quantity)
	assert.Equal(t, int64(40), c.Subtotal())

	c.Add(lineFixture(1, 40))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(2), c.Lines()[0].Quantity)
	assert.Equal(t, int64(80), c.Subtotal())

	c.Decrement(1)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1), c.Lines()[0].Quantity)
	assert.Equal(t, int64(40), c.Subtotal())

	c.Decrement(1)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestCartAddDecrementSequences(t *testing.T) {
	// 任意 add/decrement 序列后，数量 = adds - decrements，到 0 即移除
	cases := []struct {
		name string
		adds int
		decs int
	}{
		{"more adds", 5, 2},
		{"equal", 3, 3},
		{"more decs", 2, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			for i := 0; i < tc.adds; i++ {
				c.Add(lineFixture(7, 10))
			}
			for i := 0; i < tc.decs; i++ {
				c.Decrement(7)
			}
			want := tc.adds - tc.decs
			if want <= 0 {
				assert.Equal(t, 0, c.Len())
			} else {
				require.Equal(t, 1, c.Len())
				assert.Equal(t, int64(want), c.Lines()[0].Quantity)
			}
		})
	}
}

func TestCartDecrementMissingLineIsNoop(t *testing.T) {
	c := New()
	c.Add(lineFixture(1, 40))
	c.Decrement(99)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1), c.Lines()[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	c := New()
	c.Add(lineFixture(1, 40))
	c.UpdateQuantity(1, 3)
	assert.Equal(t, int64(4), c.Lines()[0].Quantity)

	c.UpdateQuantity(1, -2)
	assert.Equal(t, int64(2), c.Lines()[0].Quantity)

	// 减到 0 以下整行移除
	c.UpdateQuantity(1, -5)
	assert.Equal(t, 0, c.Len())

	// 不存在的行是 no-op，不会借道插入
	c.UpdateQuantity(42, 3)
	assert.Equal(t, 0, c.Len())
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	c := New()
	c.Add(lineFixture(3, 10))
	c.Add(lineFixture(1, 20))
	c.Add(lineFixture(2, 30))
	c.Add(lineFixture(1, 20)) // 已有行只加数量，不动顺序

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
	assert.Equal(t, int64(2), lines[2].ProductID)
}

func TestCartAddKeepsFirstSnapshot(t *testing.T) {
	c := New()
	c.Add(lineFixture(1, 40))
	// 同一商品再次加购时目录价格已变，行内快照保持首次价格
	changed := lineFixture(1, 99)
	c.Add(changed)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(40), lines[0].Price)
	assert.Equal(t, int64(2), lines[0].Quantity)
}

func TestSubtotalLinearity(t *testing.T) {
	c := New()
	c.Add(lineFixture(1, 40))
	before := c.Subtotal()

	// 新增一行 数量 q=3 单价 p=25，小计恰好增加 p*q
	c.Add(lineFixture(2, 25))
	c.UpdateQuantity(2, 2)
	assert.Equal(t, before+3*25, c.Subtotal())
}

func TestDeliveryFee(t *testing.T) {
	assert.Equal(t, int64(40), DeliveryFee(0))
	assert.Equal(t, int64(40), DeliveryFee(499))
	assert.Equal(t, int64(40), DeliveryFee(500)) // 严格大于才免邮
	assert.Equal(t, int64(0), DeliveryFee(501))
	assert.Equal(t, int64(0), DeliveryFee(10000))
}

func TestCartClearAndCount(t *testing.T) {
	c := New()
	c.Add(lineFixture(1, 40))
	c.Add(lineFixture(2, 30))
	c.Add(lineFixture(2, 30))
	assert.Equal(t, int64(3), c.Count())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Count())
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestCartRestoreDropsInvalidQuantities(t *testing.T) {
	c := New()
	c.restore([]Line{
		{ProductID: 1, Price: 10, Quantity: 2},
		{ProductID: 2, Price: 10, Quantity: 0},
		{ProductID: 3, Price: 10, Quantity: -1},
	})
	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1), c.Lines()[0].ProductID)
}
