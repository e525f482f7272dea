package service

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/cart"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

const orderQueue = "order_queue"

// OrderMessage 结算成功后写入 MQ 的消息，由 order-worker 落库并扣减库存
type OrderMessage struct {
	UserID int64      `json:"user_id"`
	Order  cart.Order `json:"order"`
}

// CartService 购物车/结算的编排层：目录校验、库存检查、MQ 投递都在这里，
// cart.Store 只负责购物车与账本本身。
type CartService struct {
	manager     *cart.Manager
	productRepo product.Repository
	mqConn      *amqp.Connection
}

// NewCartService 创建购物车服务
func NewCartService(manager *cart.Manager, productRepo product.Repository, mqConn *amqp.Connection) *CartService {
	return &CartService{
		manager:     manager,
		productRepo: productRepo,
		mqConn:      mqConn,
	}
}

// Add 加购。商品必须存在于目录且在售，否则拒绝而不是静默忽略。
func (s *CartService) Add(ctx context.Context, userID, productID int64) error {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil || p == nil {
		return cart.ErrProductNotFound
	}
	if p.Status != 1 {
		return cart.ErrProductNotFound
	}
	s.manager.ForUser(ctx, userID).Add(ctx, cart.Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Unit:      p.Unit,
		Category:  p.Category,
		Image:     p.Image,
	})
	return nil
}

// Decrement 减购，行不存在时为 no-op
func (s *CartService) Decrement(ctx context.Context, userID, productID int64) {
	s.manager.ForUser(ctx, userID).Decrement(ctx, productID)
}

// UpdateQuantity 购物车页数量增减，行不存在时为 no-op
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID, delta int64) {
	s.manager.ForUser(ctx, userID).UpdateQuantity(ctx, productID, delta)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID int64) {
	s.manager.ForUser(ctx, userID).Clear(ctx)
}

// Summary 购物车展示数据：行项目、小计、运费、合计
func (s *CartService) Summary(ctx context.Context, userID int64) (lines []cart.Line, subtotal, fee, total int64) {
	return s.manager.ForUser(ctx, userID).Summary()
}

// Count 总件数，供角标展示
func (s *CartService) Count(ctx context.Context, userID int64) int64 {
	return s.manager.ForUser(ctx, userID).Count()
}

// Orders 该用户的订单账本，创建序
func (s *CartService) Orders(ctx context.Context, userID int64) []cart.Order {
	return s.manager.ForUser(ctx, userID).Orders()
}

// Checkout 结算：先对照目录校验库存，再提交账本，最后把订单投递给
// order-worker 做库存扣减与落库。MQ 投递失败不回滚订单，只记监控。
func (s *CartService) Checkout(ctx context.Context, userID int64, customer string) (cart.Order, error) {
	GetMonitor().RecordCheckoutRequest()

	store := s.manager.ForUser(ctx, userID)
	for _, l := range store.Lines() {
		p, err := s.productRepo.GetByID(ctx, l.ProductID)
		if err != nil || p == nil {
			GetMonitor().RecordDBError()
			return cart.Order{}, fmt.Errorf("%w: product %d", cart.ErrProductNotFound, l.ProductID)
		}
		if p.Stock < l.Quantity {
			return cart.Order{}, fmt.Errorf("%w: %s", cart.ErrInsufficientStock, p.Name)
		}
	}

	o, err := store.Checkout(ctx, customer)
	if err != nil {
		return cart.Order{}, err
	}

	if err := s.publishOrder(ctx, userID, o); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("publish order message failed",
			zap.String("order_id", o.ID),
			zap.Int64("user_id", userID),
			zap.Error(err))
	}

	GetMonitor().RecordCheckoutSuccess()
	return o, nil
}

func (s *CartService) publishOrder(ctx context.Context, userID int64, o cart.Order) error {
	if s.mqConn == nil {
		return nil
	}
	ch, err := s.mqConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(orderQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(&OrderMessage{UserID: userID, Order: o})
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		orderQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// OrderQueueName order-worker 消费的队列名
func OrderQueueName() string {
	return orderQueue
}
