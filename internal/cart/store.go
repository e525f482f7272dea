package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore 购物车/订单记录的持久化协作方。
// 两条记录相互独立，每次变更整体重写，进程启动时加载一次。
type SessionStore interface {
	LoadCart(ctx context.Context, userID int64) ([]Line, error)
	SaveCart(ctx context.Context, userID int64, lines []Line) error
	LoadOrders(ctx context.Context, userID int64) ([]Order, error)
	SaveOrders(ctx context.Context, userID int64, orders []Order) error
}

// Store 单个用户的购物车与订单账本，变更只能经由这里的方法。
// 每次成功变更后同步落一次快照，落盘失败只记日志不影响内存状态。
type Store struct {
	mu       sync.Mutex
	userID   int64
	cart     *Cart
	orders   []Order // 创建序，展示层自行倒序
	sessions SessionStore

	now   func() time.Time
	newID func() string
}

// NewStore 创建用户的购物车账本，并尝试恢复已保存的记录。
// 加载失败视为持久化层故障，记日志后按空状态继续。
func NewStore(ctx context.Context, userID int64, sessions SessionStore) *Store {
	s := &Store{
		userID:   userID,
		cart:     New(),
		sessions: sessions,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if sessions == nil {
		return s
	}
	if lines, err := sessions.LoadCart(ctx, userID); err != nil {
		zap.L().Warn("load cart record failed", zap.Int64("user_id", userID), zap.Error(err))
	} else {
		s.cart.restore(lines)
	}
	if orders, err := sessions.LoadOrders(ctx, userID); err != nil {
		zap.L().Warn("load orders record failed", zap.Int64("user_id", userID), zap.Error(err))
	} else {
		s.orders = orders
	}
	return s
}

// Add 加购：不存在则插入数量 1 的快照行，存在则数量 +1
func (s *Store) Add(ctx context.Context, snap Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(snap)
	s.saveCart(ctx)
}

// Decrement 减购：数量 1 时整行移除
func (s *Store) Decrement(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Decrement(productID)
	s.saveCart(ctx)
}

// UpdateQuantity 购物车页的数量增减入口
func (s *Store) UpdateQuantity(ctx context.Context, productID, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, delta)
	s.saveCart(ctx)
}

// Clear 清空购物车
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.saveCart(ctx)
}

// Lines 当前行项目快照
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Count 总件数
func (s *Store) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

// Summary 行项目 + 小计 + 运费 + 合计，一次加锁算完保证一致
func (s *Store) Summary() (lines []Line, subtotal, fee, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines = s.cart.Lines()
	subtotal = s.cart.Subtotal()
	fee = DeliveryFee(subtotal)
	total = subtotal + fee
	return
}

// Checkout 结算：深拷贝当前行项目生成 Pending 订单追加进账本，
// 随后清空购物车。订单金额按同一小计公式现算，不含运费。
func (s *Store) Checkout(ctx context.Context, customer string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		return Order{}, ErrEmptyCart
	}

	o := newOrder(s.newID(), s.cart.Lines(), customer, s.now())
	s.orders = append(s.orders, o)
	s.cart.Clear()
	s.saveCart(ctx)
	s.saveOrders(ctx)
	return o, nil
}

// Orders 账本快照，创建序
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) saveCart(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.SaveCart(ctx, s.userID, s.cart.Lines()); err != nil {
		zap.L().Warn("save cart record failed", zap.Int64("user_id", s.userID), zap.Error(err))
	}
}

func (s *Store) saveOrders(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.SaveOrders(ctx, s.userID, s.orders); err != nil {
		zap.L().Warn("save orders record failed", zap.Int64("user_id", s.userID), zap.Error(err))
	}
}

// Manager 按用户维护 Store，首次访问时创建并恢复记录
type Manager struct {
	mu       sync.Mutex
	sessions SessionStore
	stores   map[int64]*Store
}

// NewManager 创建购物车管理器
func NewManager(sessions SessionStore) *Manager {
	return &Manager{
		sessions: sessions,
		stores:   make(map[int64]*Store),
	}
}

// ForUser 取出（或创建）该用户的购物车账本
func (m *Manager) ForUser(ctx context.Context, userID int64) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[userID]; ok {
		return s
	}
	s := NewStore(ctx, userID, m.sessions)
	m.stores[userID] = s
	return s
}
