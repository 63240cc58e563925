package service

import (
	"context"
	"strings"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"

	"gorm.io/gorm"
)

// OrderStatusMachine 订单状态流转图
type OrderStatusMachine struct {
	transitions map[string]map[string]bool
}

// NewOrderStatusMachine 创建状态机：主链路逐级推进，未签收且未取消的订单均可取消
func NewOrderStatusMachine() OrderStatusMachine {
	return OrderStatusMachine{transitions: map[string]map[string]bool{
		constants.OrderStatusPending: {
			constants.OrderStatusConfirmed: true,
			constants.OrderStatusCancelled: true,
		},
		constants.OrderStatusConfirmed: {
			constants.OrderStatusProcessing: true,
			constants.OrderStatusCancelled:  true,
		},
		constants.OrderStatusProcessing: {
			constants.OrderStatusShipped:   true,
			constants.OrderStatusCancelled: true,
		},
		constants.OrderStatusShipped: {
			constants.OrderStatusDelivered: true,
			constants.OrderStatusCancelled: true,
		},
		constants.OrderStatusDelivered: {},
		constants.OrderStatusCancelled: {},
	}}
}

// IsKnown 是否为已定义状态
func (m OrderStatusMachine) IsKnown(status string) bool {
	_, ok := m.transitions[status]
	return ok
}

// Check 校验 from -> to 是否允许，相同状态视为允许
func (m OrderStatusMachine) Check(from, to string) error {
	if !m.IsKnown(to) || !m.IsKnown(from) {
		return ErrOrderStatusInvalid
	}
	if from == to {
		return nil
	}
	if !m.transitions[from][to] {
		return ErrOrderStatusTransition
	}
	return nil
}

// Next 返回可流转的目标状态
func (m OrderStatusMachine) Next(from string) []string {
	result := make([]string, 0, len(m.transitions[from]))
	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	} {
		if m.transitions[from][status] {
			result = append(result, status)
		}
	}
	return result
}

// NextStatuses 返回订单当前状态可流转的目标状态
func (s *OrderService) NextStatuses(from string) []string {
	return s.statusMachine.Next(from)
}

// UpdateOrderStatus 管理端更新订单状态
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, targetStatus string) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if !s.statusMachine.IsKnown(target) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.transition(ctx, order, target)
}

// CancelOrder 用户取消自己的订单（仅待确认/已确认）
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusConfirmed {
		return nil, ErrOrderCancelNotAllowed
	}
	return s.transition(ctx, order, constants.OrderStatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, target string) (*models.Order, error) {
	if order.Status == target {
		return order, nil
	}
	if err := s.statusMachine.Check(order.Status, target); err != nil {
		return nil, err
	}

	ctx = logger.WithOrder(ctx, order.ID, order.OrderNumber)
	fromStatus := order.Status
	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
		if order.PaymentStatus != constants.PaymentStatusPaid && s.options.settlesOnDelivery(order.PaymentMethod) {
			updates["payment_status"] = constants.PaymentStatusPaid
			updates["paid_at"] = now
		}
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID, fromStatus, target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusTransition
		}
		if target != constants.OrderStatusCancelled {
			return nil
		}
		return s.releaseCancelled(tx, order, fromStatus)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil || updated == nil {
		logger.FromContext(ctx).Warnw("order_reload_after_transition_failed", "error", err)
		order.Status = target
		order.UpdatedAt = now
		updated = order
	}
	logger.FromContext(ctx).Infow("order_status_updated",
		"from_status", fromStatus,
		"to_status", updated.Status,
		"payment_status", updated.PaymentStatus,
	)
	s.publishStatusUpdated(ctx, updated, fromStatus)
	return updated, nil
}

// releaseCancelled 归还取消订单占用的优惠码次数；已发货的货品不在仓内，不回补库存
func (s *OrderService) releaseCancelled(tx *gorm.DB, order *models.Order, fromStatus string) error {
	if order.DiscountCode != nil && *order.DiscountCode != "" {
		discountRepo := s.discountRepo.WithTx(tx)
		code, err := discountRepo.GetByCode(*order.DiscountCode)
		if err != nil {
			return err
		}
		if code != nil {
			if err := discountRepo.DecrementUsage(code.ID); err != nil {
				return err
			}
		}
	}
	if fromStatus == constants.OrderStatusShipped {
		return nil
	}
	productRepo := s.productRepo.WithTx(tx)
	for _, item := range order.Items {
		if _, err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePaymentStatus 管理端更新支付状态（仅待支付可变更为已支付/失败）
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, paymentStatus string) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(paymentStatus))
	if target != constants.PaymentStatusPaid && target != constants.PaymentStatusFailed {
		return nil, ErrPaymentStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus == target {
		return order, nil
	}
	if order.PaymentStatus != constants.PaymentStatusPending || order.Status == constants.OrderStatusCancelled {
		return nil, ErrPaymentStatusInvalid
	}
	now := time.Now()
	updates := map[string]interface{}{
		"payment_status": target,
		"updated_at":     now,
	}
	if target == constants.PaymentStatusPaid {
		updates["paid_at"] = now
	}
	if err := s.orderRepo.Updates(order.ID, updates); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("order_payment_status_updated",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"payment_status", target,
	)
	order.PaymentStatus = target
	order.UpdatedAt = now
	if target == constants.PaymentStatusPaid {
		order.PaidAt = &now
	}
	return order, nil
}
