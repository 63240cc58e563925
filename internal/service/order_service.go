package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/events"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	db              *gorm.DB
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	cartRepo        repository.CartRepository
	discountRepo    repository.DiscountCodeRepository
	discountService *DiscountCodeService
	publisher       events.Publisher
	statusMachine   OrderStatusMachine
	options         OrderOptions
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, discountRepo repository.DiscountCodeRepository, publisher events.Publisher, options OrderOptions) *OrderService {
	if options.NumberRetry <= 0 {
		options.NumberRetry = 1
	}
	return &OrderService{
		db:              db,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		cartRepo:        cartRepo,
		discountRepo:    discountRepo,
		discountService: NewDiscountCodeService(discountRepo),
		publisher:       events.NewBestEffort(publisher),
		statusMachine:   NewOrderStatusMachine(),
		options:         options,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	PaymentMethod   string
	ShippingAddress models.ShippingAddress
	Notes           string
	DiscountCode    string
	Platform        string
}

func (in CreateOrderInput) checkoutParams() CheckoutParams {
	return CheckoutParams{
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		DiscountCode:    in.DiscountCode,
		Platform:        in.Platform,
	}
}

// OrderPreview 下单试算结果
type OrderPreview struct {
	Items          []models.OrderItem `json:"items"`
	TotalAmount    models.Money       `json:"total_amount"`
	DiscountAmount models.Money       `json:"discount_amount"`
	FinalAmount    models.Money       `json:"final_amount"`
	DiscountCode   *string            `json:"discount_code,omitempty"`
}

// PreviewOrder 校验并计算订单金额，不写入任何数据
func (s *OrderService) PreviewOrder(ctx context.Context, input CreateOrderInput) (*OrderPreview, error) {
	plan, err := s.buildPlan(ctx, input)
	if err != nil {
		return nil, err
	}
	return &OrderPreview{
		Items:          plan.Items,
		TotalAmount:    plan.Order.TotalAmount,
		DiscountAmount: plan.Order.DiscountAmount,
		FinalAmount:    plan.Order.FinalAmount,
		DiscountCode:   plan.Order.DiscountCode,
	}, nil
}

// CreateOrder 将用户购物车转为订单：校验库存、事务内写入并扣减库存、清空购物车，提交后尽力投递事件
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	plan, err := s.buildPlan(ctx, input)
	if err != nil {
		return nil, err
	}
	order, err := s.commitOrder(ctx, plan)
	if err != nil {
		logger.FromContext(ctx).Warnw("order_create_failed",
			"user_id", input.UserID,
			"error", err,
		)
		return nil, err
	}
	ctx = logger.WithOrder(ctx, order.ID, order.OrderNumber)
	logger.FromContext(ctx).Infow("order_created",
		"user_id", order.UserID,
		"final_amount", order.FinalAmount.String(),
	)
	s.publishOrderCreated(ctx, order)
	return order, nil
}

func (s *OrderService) buildPlan(_ context.Context, input CreateOrderInput) (*orderPlan, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidCheckout
	}
	params, err := normalizeCheckoutParams(input.checkoutParams())
	if err != nil {
		return nil, err
	}
	lines, err := s.cartRepo.ListByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var evaluate discountEvaluator
	if s.options.DiscountCodesEnabled {
		evaluate = func(code string, total decimal.Decimal) (*DiscountEvaluation, error) {
			return s.discountService.Evaluate(code, total, now)
		}
	}
	return assembleOrder(input.UserID, lines, params, evaluate, now)
}

// commitOrder 在单个事务中写入订单并扣减库存；订单号冲突时重新生成
func (s *OrderService) commitOrder(ctx context.Context, plan *orderPlan) (*models.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= s.options.NumberRetry; attempt++ {
		order := plan.Order
		order.OrderNumber = generateOrderNumber(s.options.NumberPrefix, time.Now())
		items := make([]models.OrderItem, len(plan.Items))
		copy(items, plan.Items)

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.persistOrder(tx, &order, items, plan.Discount)
		})
		if err == nil {
			order.Items = items
			return &order, nil
		}
		if !isOrderNumberConflict(err) {
			return nil, err
		}
		lastErr = err
		logger.FromContext(ctx).Warnw("order_number_conflict",
			"order_number", order.OrderNumber,
			"attempt", attempt,
		)
	}
	return nil, fmt.Errorf("%w: %w", ErrOrderCreateFailed, lastErr)
}

func (s *OrderService) persistOrder(tx *gorm.DB, order *models.Order, items []models.OrderItem, discount *models.DiscountCode) error {
	orderRepo := s.orderRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)
	cartRepo := s.cartRepo.WithTx(tx)

	demand := make(map[uint]int, len(items))
	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
		demand[item.ProductID] += item.Quantity
	}
	slices.Sort(productIDs)
	productIDs = slices.Compact(productIDs)
	locked, err := productRepo.LockByIDs(productIDs)
	if err != nil {
		return err
	}
	stock := make(map[uint]int, len(locked))
	for _, product := range locked {
		stock[product.ID] = product.Stock
	}
	for _, item := range items {
		if stock[item.ProductID] < demand[item.ProductID] {
			return lockedStockError(item, demand, stock)
		}
	}

	if err := orderRepo.Create(order); err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := orderRepo.CreateItem(&items[i]); err != nil {
			return err
		}
		affected, err := productRepo.DecrementStock(items[i].ProductID, items[i].Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return lockedStockError(items[i], demand, stock)
		}
	}

	if discount != nil {
		affected, err := s.discountRepo.WithTx(tx).IncrementUsage(discount.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrDiscountCodeExhausted
		}
	}
	return cartRepo.ClearByUser(order.UserID)
}

// lockedStockError 以加锁时读到的库存构造错误，不受本事务内已扣减数量影响
func lockedStockError(item models.OrderItem, demand, stock map[uint]int) error {
	return &InsufficientStockError{
		ProductID:   item.ProductID,
		ProductName: item.ProductSnapshot.Name,
		Requested:   demand[item.ProductID],
		Available:   stock[item.ProductID],
	}
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	_ = s.publisher.Publish(ctx, constants.EventOrderCreated, order.OrderNumber, events.OrderCreatedEvent{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		TotalAmount:    order.TotalAmount.String(),
		DiscountAmount: order.DiscountAmount.String(),
		FinalAmount:    order.FinalAmount.String(),
		ItemCount:      len(order.Items),
		PaymentMethod:  order.PaymentMethod,
		Platform:       order.Platform,
		CreatedAt:      order.CreatedAt,
	})
}

func (s *OrderService) publishStatusUpdated(ctx context.Context, order *models.Order, fromStatus string) {
	_ = s.publisher.Publish(ctx, constants.EventOrderStatusUpdated, order.OrderNumber, events.OrderStatusUpdatedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		FromStatus:    fromStatus,
		ToStatus:      order.Status,
		PaymentStatus: order.PaymentStatus,
		UpdatedAt:     order.UpdatedAt,
	})
}
