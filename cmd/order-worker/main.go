package main

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/config"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/order"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/infra/mq"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/logger"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/repository/mysql"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/service"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init()

	db := mysql.Init(&cfg.MySQL)
	mqConn := mq.Init(&cfg.RabbitMQ)

	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	queue := service.OrderQueueName()
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// 手动确认模式（auto-ack=false），失败的消息不重投
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	zap.L().Info("order worker started, waiting for messages")

	for d := range msgs {
		var m service.OrderMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			zap.L().Warn("invalid order message", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		handleMessage(context.Background(), productRepo, orderRepo, &m, d)
	}
}

// handleMessage 扣减每行商品的库存并把订单落库。
// 任一行扣减失败时，把已扣的行补回去，保证库存不被半截消耗。
func handleMessage(ctx context.Context, productRepo product.Repository, orderRepo order.Repository, m *service.OrderMessage, d amqp.Delivery) {
	// 幂等：订单已落库说明是重投消息，直接确认
	if existing, err := orderRepo.GetByID(ctx, m.Order.ID); err == nil && existing != nil {
		zap.L().Info("order already processed", zap.String("order_id", m.Order.ID))
		_ = d.Ack(false)
		return
	}

	var decremented []int
	rollback := func() {
		for _, i := range decremented {
			l := m.Order.Items[i]
			p, err := productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				zap.L().Error("rollback: load product failed",
					zap.Int64("product_id", l.ProductID), zap.Error(err))
				continue
			}
			p.Stock += l.Quantity
			if err := productRepo.Update(ctx, p); err != nil {
				zap.L().Error("rollback: restore stock failed",
					zap.Int64("product_id", l.ProductID), zap.Error(err))
			}
		}
	}

	for i, l := range m.Order.Items {
		if err := productRepo.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
			zap.L().Warn("decrement stock failed",
				zap.String("order_id", m.Order.ID),
				zap.Int64("product_id", l.ProductID),
				zap.Error(err))
			service.GetMonitor().RecordDBError()
			service.GetMonitor().RecordWorkerFailed()
			rollback()
			_ = d.Nack(false, false)
			return
		}
		decremented = append(decremented, i)
	}

	items, err := json.Marshal(m.Order.Items)
	if err != nil {
		service.GetMonitor().RecordWorkerFailed()
		rollback()
		_ = d.Nack(false, false)
		return
	}

	row := &order.Order{
		ID:           m.Order.ID,
		UserID:       m.UserID,
		CustomerName: m.Order.CustomerName,
		Total:        m.Order.Total,
		Status:       m.Order.Status,
		Items:        items,
		CreatedAt:    m.Order.CreatedAt,
	}
	if err := orderRepo.Create(ctx, row); err != nil {
		zap.L().Error("persist order failed", zap.String("order_id", m.Order.ID), zap.Error(err))
		service.GetMonitor().RecordDBError()
		service.GetMonitor().RecordWorkerFailed()
		rollback()
		_ = d.Nack(false, false)
		return
	}

	service.GetMonitor().RecordWorkerProcessed()
	zap.L().Info("order processed",
		zap.String("order_id", m.Order.ID),
		zap.Int64("user_id", m.UserID),
		zap.Int64("total", m.Order.Total))
	_ = d.Ack(false)
}
