package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/events"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"
)

// NotificationService 站内通知服务，由订单事件驱动写入
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// NotificationList 通知列表结果
type NotificationList struct {
	Items  []models.Notification
	Total  int64
	Unread int64
}

// List 用户通知列表
func (s *NotificationService) List(filter repository.NotificationListFilter) (*NotificationList, error) {
	if filter.UserID == 0 {
		return &NotificationList{Items: []models.Notification{}}, nil
	}
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(filter.UserID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Items: items, Total: total, Unread: unread}, nil
}

// MarkRead 标记通知已读，重复标记视为成功
func (s *NotificationService) MarkRead(userID, id uint) error {
	affected, err := s.repo.MarkRead(id, userID, time.Now())
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	existing, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotificationNotFound
	}
	return nil
}

// HandleOrderCreated 订单创建事件 -> 下单成功通知
func (s *NotificationService) HandleOrderCreated(ctx context.Context, evt events.OrderCreatedEvent) error {
	if evt.UserID == 0 || evt.OrderID == 0 {
		return nil
	}
	orderID := evt.OrderID
	notification := &models.Notification{
		UserID:  evt.UserID,
		Type:    constants.NotificationTypeOrderCreated,
		Title:   fmt.Sprintf("Order %s placed", evt.OrderNumber),
		Body:    fmt.Sprintf("Thanks for your order. %d item(s), total %s.", evt.ItemCount, evt.FinalAmount),
		OrderID: &orderID,
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}
	logger.FromContext(ctx).Debugw("notification_created", "type", notification.Type)
	return nil
}

// HandleOrderStatusUpdated 订单状态事件 -> 状态变更通知
func (s *NotificationService) HandleOrderStatusUpdated(ctx context.Context, evt events.OrderStatusUpdatedEvent) error {
	if evt.UserID == 0 || evt.OrderID == 0 {
		return nil
	}
	orderID := evt.OrderID
	notification := &models.Notification{
		UserID:  evt.UserID,
		Type:    constants.NotificationTypeOrderStatusUpdated,
		Title:   fmt.Sprintf("Order %s is %s", evt.OrderNumber, orderStatusLabel(evt.ToStatus)),
		Body:    fmt.Sprintf("Status changed from %s to %s.", evt.FromStatus, evt.ToStatus),
		OrderID: &orderID,
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}
	logger.FromContext(ctx).Debugw("notification_created", "type", notification.Type)
	return nil
}
