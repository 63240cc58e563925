package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vestra-shop/internal/events"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/provider"
	"github.com/vestra-shop/internal/queue"
	"github.com/vestra-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 订单事件消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderCreated, c.handleOrderCreated)
	mux.HandleFunc(queue.TaskOrderStatusUpdated, c.handleOrderStatusUpdated)
}

func (c *Consumer) handleOrderCreated(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_created_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var evt events.OrderCreatedEvent
	envelope, err := events.Decode(task.Payload(), &evt)
	if err != nil {
		logger.Warnw("worker_order_created_decode_failed", "error", err)
		return fmt.Errorf("decode order created event: %v: %w", err, asynq.SkipRetry)
	}
	ctx = logger.WithEvent(ctx, envelope.ID, evt.OrderID)
	if evt.OrderID == 0 {
		logger.FromContext(ctx).Debugw("worker_order_created_skip_invalid_payload")
		return nil
	}
	if c.NotificationService == nil {
		logger.FromContext(ctx).Warnw("worker_order_created_skip_notification_service_nil")
		return nil
	}
	if err := c.NotificationService.HandleOrderCreated(ctx, evt); err != nil {
		logger.FromContext(ctx).Warnw("worker_order_created_notify_failed", "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusUpdated(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var evt events.OrderStatusUpdatedEvent
	envelope, err := events.Decode(task.Payload(), &evt)
	if err != nil {
		logger.Warnw("worker_order_status_decode_failed", "error", err)
		return fmt.Errorf("decode order status event: %v: %w", err, asynq.SkipRetry)
	}
	ctx = logger.WithEvent(ctx, envelope.ID, evt.OrderID)
	if evt.OrderID == 0 {
		logger.FromContext(ctx).Debugw("worker_order_status_skip_invalid_payload")
		return nil
	}
	if c.NotificationService != nil {
		if err := c.NotificationService.HandleOrderStatusUpdated(ctx, evt); err != nil {
			logger.FromContext(ctx).Warnw("worker_order_status_notify_failed", "error", err)
			return err
		}
	}
	// 站内通知已落库，邮件失败只记日志，避免重试产生重复通知
	c.sendOrderStatusEmail(ctx, evt)
	return nil
}

func (c *Consumer) sendOrderStatusEmail(ctx context.Context, evt events.OrderStatusUpdatedEvent) {
	log := logger.FromContext(ctx)
	if c.EmailService == nil || !c.EmailService.Enabled() {
		log.Debugw("worker_order_status_email_skip_disabled")
		return
	}
	if c.UserService == nil || evt.UserID == 0 {
		return
	}
	receiverEmail, err := c.UserService.GetEmail(evt.UserID)
	if err != nil {
		log.Warnw("worker_order_status_email_fetch_user_failed", "user_id", evt.UserID, "error", err)
		return
	}
	receiverEmail = strings.TrimSpace(receiverEmail)
	if receiverEmail == "" {
		log.Debugw("worker_order_status_email_skip_empty_receiver", "user_id", evt.UserID)
		return
	}
	input := service.OrderStatusEmailInput{
		OrderNumber: evt.OrderNumber,
		Status:      evt.ToStatus,
	}
	if c.OrderRepo != nil {
		if order, err := c.OrderRepo.GetByID(evt.OrderID); err == nil && order != nil {
			input.Amount = order.FinalAmount
		}
	}
	if err := c.EmailService.SendOrderStatusEmail(receiverEmail, input); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) {
			return
		}
		log.Warnw("worker_order_status_email_send_failed",
			"order_number", evt.OrderNumber,
			"receiver_email", receiverEmail,
			"status", evt.ToStatus,
			"error", err,
		)
	}
}
