package service

import (
	"strings"
	"time"

	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/models"

	"github.com/shopspring/decimal"
)

// CheckoutParams 下单参数
type CheckoutParams struct {
	PaymentMethod   string
	ShippingAddress models.ShippingAddress
	Notes           string
	DiscountCode    string
	Platform        string
}

// discountEvaluator 根据订单合计试算优惠码
type discountEvaluator func(code string, total decimal.Decimal) (*DiscountEvaluation, error)

// orderPlan 组装完成、尚未落库的订单
type orderPlan struct {
	Order    models.Order
	Items    []models.OrderItem
	Discount *models.DiscountCode
}

var allowedPaymentMethods = map[string]bool{
	constants.PaymentMethodCOD:          true,
	constants.PaymentMethodCard:         true,
	constants.PaymentMethodBankTransfer: true,
}

var allowedPlatforms = map[string]bool{
	constants.PlatformWeb:    true,
	constants.PlatformMobile: true,
}

// normalizeCheckoutParams 校验请求形态，不读取购物车
func normalizeCheckoutParams(params CheckoutParams) (CheckoutParams, error) {
	params.PaymentMethod = strings.ToLower(strings.TrimSpace(params.PaymentMethod))
	if !allowedPaymentMethods[params.PaymentMethod] {
		return params, ErrInvalidCheckout
	}
	params.Platform = strings.ToLower(strings.TrimSpace(params.Platform))
	if params.Platform == "" {
		params.Platform = constants.PlatformWeb
	}
	if !allowedPlatforms[params.Platform] {
		return params, ErrInvalidCheckout
	}
	addr := params.ShippingAddress
	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.Line1 = strings.TrimSpace(addr.Line1)
	addr.Line2 = strings.TrimSpace(addr.Line2)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	addr.Country = strings.TrimSpace(addr.Country)
	if addr.FullName == "" || addr.Phone == "" || addr.Line1 == "" || addr.City == "" {
		return params, ErrInvalidCheckout
	}
	params.ShippingAddress = addr
	params.Notes = strings.TrimSpace(params.Notes)
	params.DiscountCode = normalizeDiscountCode(params.DiscountCode)
	return params, nil
}

// assembleOrder 校验库存并按当前价格组装订单；同一商品多个尺码按合计数量校验
func assembleOrder(userID uint, lines []models.CartItem, params CheckoutParams, evaluate discountEvaluator, now time.Time) (*orderPlan, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	demand := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.Product == nil {
			return nil, &InsufficientStockError{ProductID: line.ProductID, Requested: line.Quantity}
		}
		if !line.Product.IsActive {
			return nil, ErrProductInactive
		}
		demand[line.ProductID] += line.Quantity
	}
	for _, line := range lines {
		if need := demand[line.ProductID]; line.Product.Stock < need {
			return nil, &InsufficientStockError{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				Requested:   need,
				Available:   line.Product.Stock,
			}
		}
	}

	var total models.Money
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		unitPrice := line.Product.Price
		subtotal := unitPrice.Mul(line.Quantity)
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID:       line.Product.ID,
			Size:            line.Size,
			Quantity:        line.Quantity,
			UnitPrice:       unitPrice,
			Subtotal:        subtotal,
			ProductSnapshot: line.Product.Snapshot(),
			CreatedAt:       now,
		})
	}

	discount := decimal.Zero
	var applied *models.DiscountCode
	if params.DiscountCode != "" && evaluate != nil {
		evaluation, err := evaluate(params.DiscountCode, total.Decimal)
		if err != nil {
			return nil, err
		}
		discount = evaluation.Amount
		applied = evaluation.Code
	}

	order := models.Order{
		UserID:          userID,
		TotalAmount:     total,
		DiscountAmount:  models.NewMoneyFromDecimal(discount),
		FinalAmount:     total.SubFloor(discount),
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.PaymentStatusPending,
		PaymentMethod:   params.PaymentMethod,
		ShippingAddress: params.ShippingAddress,
		Notes:           params.Notes,
		Platform:        params.Platform,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if applied != nil {
		code := applied.Code
		order.DiscountCode = &code
	}
	return &orderPlan{Order: order, Items: items, Discount: applied}, nil
}
