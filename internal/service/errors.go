package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidCheckout       = errors.New("invalid checkout params")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderStatusInvalid    = errors.New("order status invalid")
	ErrOrderStatusTransition = errors.New("order status transition not allowed")
	ErrOrderCancelNotAllowed = errors.New("order cannot be cancelled")
	ErrPaymentStatusInvalid  = errors.New("payment status invalid")
	ErrOrderCreateFailed     = errors.New("order create failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductInactive       = errors.New("product inactive")
	ErrProductSlugExists     = errors.New("product slug already exists")
	ErrProductSizeInvalid    = errors.New("product size invalid")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrCartQuantityInvalid   = errors.New("cart quantity invalid")
	ErrDiscountCodeNotFound  = errors.New("discount code not found")
	ErrDiscountCodeInactive  = errors.New("discount code inactive")
	ErrDiscountCodeNotStart  = errors.New("discount code not started")
	ErrDiscountCodeExpired   = errors.New("discount code expired")
	ErrDiscountCodeExhausted = errors.New("discount code usage limit reached")
	ErrDiscountCodeMinAmount = errors.New("discount code minimum amount not met")
	ErrDiscountCodeInvalid   = errors.New("discount code invalid")
	ErrDiscountCodeExists    = errors.New("discount code already exists")
	ErrDashboardRangeInvalid = errors.New("dashboard range invalid")
	ErrBannerNotFound        = errors.New("banner not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrOTPInvalid            = errors.New("verification code invalid")
	ErrOTPExpired            = errors.New("verification code expired")
	ErrOTPTooManyAttempts    = errors.New("verification code attempts exceeded")
	ErrOTPStoreUnavailable   = errors.New("verification code store unavailable")
	ErrEmailServiceDisabled  = errors.New("email service disabled")
	ErrEmailNotConfigured    = errors.New("email service not configured")
	ErrInvalidEmail          = errors.New("invalid email")
	ErrEmailRejected         = errors.New("email recipient rejected")
	ErrTokenInvalid          = errors.New("token invalid")
	ErrUserDisabled          = errors.New("user disabled")
)

// InsufficientStockError 库存不足，携带商品信息
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// Is 使 errors.Is(err, ErrInsufficientStock) 成立
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
