package cart

import "errors"

// 运费规则：小计超过免邮门槛才免运费（严格大于）
const (
	deliveryFlatFee  = 40
	freeDeliveryOver = 500
)

var (
	// ErrProductNotFound 操作引用了目录中不存在的商品
	ErrProductNotFound = errors.New("product not found in catalog")
	// ErrEmptyCart 对空购物车发起结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientStock 结算时商品库存不足
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Line 购物车行：商品下单时点的快照 + 数量。
// 数量恒 >= 1，减到 0 的行直接移除。
type Line struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // 卢比
	Unit      string `json:"unit"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Quantity  int64  `json:"quantity"`
}

// Cart 以插入序保存行项目，同一商品只会有一行
type Cart struct {
	lines []*Line
}

// New 创建空购物车
func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID int64) (int, *Line) {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i, l
		}
	}
	return -1, nil
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Add 新商品插入数量为 1 的行，已有行数量 +1。
// snap 携带商品当前属性，行一旦存在则保留首次加入时的快照。
func (c *Cart) Add(snap Line) {
	if _, l := c.find(snap.ProductID); l != nil {
		l.Quantity++
		return
	}
	snap.Quantity = 1
	c.lines = append(c.lines, &snap)
}

// Decrement 数量为 1 时移除整行，否则 -1；行不存在时不做任何事
func (c *Cart) Decrement(productID int64) {
	i, l := c.find(productID)
	if l == nil {
		return
	}
	if l.Quantity <= 1 {
		c.removeAt(i)
		return
	}
	l.Quantity--
}

// UpdateQuantity 数量增减 delta，结果 <= 0 时移除整行。
// 只作用于已存在的行，缺失时是 no-op，新增必须走 Add。
func (c *Cart) UpdateQuantity(productID, delta int64) {
	i, l := c.find(productID)
	if l == nil {
		return
	}
	next := l.Quantity + delta
	if next <= 0 {
		c.removeAt(i)
		return
	}
	l.Quantity = next
}

// Clear 清空所有行
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines 返回行项目的值拷贝，保持插入序
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	return out
}

// Len 行数
func (c *Cart) Len() int {
	return len(c.lines)
}

// Count 商品总件数，用于购物车角标
func (c *Cart) Count() int64 {
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal 小计 = Σ 单价×数量，始终现算不缓存
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.Price * l.Quantity
	}
	return sum
}

// Subtotal 按同一公式对任意行集合求小计，订单落账时复用
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.Price * l.Quantity
	}
	return sum
}

// DeliveryFee 运费是小计的纯函数：小计 > 500 免运费，否则固定 40
func DeliveryFee(subtotal int64) int64 {
	if subtotal > freeDeliveryOver {
		return 0
	}
	return deliveryFlatFee
}

// restore 从持久化记录恢复行项目，过滤掉非法数量
func (c *Cart) restore(lines []Line) {
	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		cp := l
		c.lines = append(c.lines, &cp)
	}
}
