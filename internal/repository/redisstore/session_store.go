package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/cart"
)

const (
	cartKeyFmt   = "kirana:cart:%d"   // userID
	ordersKeyFmt = "kirana:orders:%d" // userID

	recordVersion = 1
)

// cartRecord / ordersRecord 带版本号的整体快照，方便后续迁移
type cartRecord struct {
	V     int         `json:"v"`
	Lines []cart.Line `json:"lines"`
}

type ordersRecord struct {
	V      int          `json:"v"`
	Orders []cart.Order `json:"orders"`
}

// SessionStore 用 Redis 保存每个用户的购物车/订单记录。
// 两个 key 相互独立，每次变更整体重写。
type SessionStore struct {
	client radix.Client
}

// New 创建会话存储
func New(client radix.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) LoadCart(ctx context.Context, userID int64) ([]cart.Line, error) {
	var raw string
	key := fmt.Sprintf(cartKeyFmt, userID)
	if err := s.client.Do(radix.Cmd(&raw, "GET", key)); err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var rec cartRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		// 记录损坏则丢弃，按空购物车处理
		_ = s.client.Do(radix.Cmd(nil, "DEL", key))
		return nil, nil
	}
	return rec.Lines, nil
}

func (s *SessionStore) SaveCart(ctx context.Context, userID int64, lines []cart.Line) error {
	body, err := json.Marshal(cartRecord{V: recordVersion, Lines: lines})
	if err != nil {
		return err
	}
	return s.client.Do(radix.FlatCmd(nil, "SET", fmt.Sprintf(cartKeyFmt, userID), body))
}

func (s *SessionStore) LoadOrders(ctx context.Context, userID int64) ([]cart.Order, error) {
	var raw string
	key := fmt.Sprintf(ordersKeyFmt, userID)
	if err := s.client.Do(radix.Cmd(&raw, "GET", key)); err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var rec ordersRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		_ = s.client.Do(radix.Cmd(nil, "DEL", key))
		return nil, nil
	}
	return rec.Orders, nil
}

func (s *SessionStore) SaveOrders(ctx context.Context, userID int64, orders []cart.Order) error {
	body, err := json.Marshal(ordersRecord{V: recordVersion, Orders: orders})
	if err != nil {
		return err
	}
	return s.client.Do(radix.FlatCmd(nil, "SET", fmt.Sprintf(ordersKeyFmt, userID), body))
}
