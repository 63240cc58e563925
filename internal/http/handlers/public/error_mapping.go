package public

import (
	"errors"

	handlershared "github.com/vestra-shop/internal/http/handlers/shared"
	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var discountCodeErrorRules = []mappedHandlerError{
	{Target: service.ErrDiscountCodeNotFound, Code: response.CodeBadRequest, Key: "error.discount_code_not_found"},
	{Target: service.ErrDiscountCodeInactive, Code: response.CodeBadRequest, Key: "error.discount_code_inactive"},
	{Target: service.ErrDiscountCodeNotStart, Code: response.CodeBadRequest, Key: "error.discount_code_not_started"},
	{Target: service.ErrDiscountCodeExpired, Code: response.CodeBadRequest, Key: "error.discount_code_expired"},
	{Target: service.ErrDiscountCodeExhausted, Code: response.CodeBadRequest, Key: "error.discount_code_exhausted"},
	{Target: service.ErrDiscountCodeMinAmount, Code: response.CodeBadRequest, Key: "error.discount_code_min_amount"},
	{Target: service.ErrDiscountCodeInvalid, Code: response.CodeBadRequest, Key: "error.discount_code_invalid"},
}

var checkoutErrorRules = []mappedHandlerError{
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest, Key: "error.stock_insufficient"},
	{Target: service.ErrInvalidCheckout, Code: response.CodeBadRequest, Key: "error.checkout_invalid"},
	{Target: service.ErrProductInactive, Code: response.CodeBadRequest, Key: "error.product_inactive"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductInactive, Code: response.CodeBadRequest, Key: "error.product_inactive"},
	{Target: service.ErrProductSizeInvalid, Code: response.CodeBadRequest, Key: "error.product_size_invalid"},
	{Target: service.ErrCartQuantityInvalid, Code: response.CodeBadRequest, Key: "error.cart_quantity_invalid"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

var userOrderErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeBadRequest, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrOrderStatusTransition, Code: response.CodeConflict, Key: "error.order_status_transition"},
}

var passwordResetErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrOTPInvalid, Code: response.CodeBadRequest, Key: "error.otp_invalid"},
	{Target: service.ErrOTPExpired, Code: response.CodeBadRequest, Key: "error.otp_expired"},
	{Target: service.ErrOTPTooManyAttempts, Code: response.CodeTooManyRequests, Key: "error.otp_too_many_attempts"},
	{Target: service.ErrOTPStoreUnavailable, Code: response.CodeServiceUnavailable, Key: "error.otp_unavailable"},
}

func respondCheckoutError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		key := "error.stock_insufficient"
		handlershared.RespondAppError(c, response.NewAppError(response.CodeBadRequest, key, handlershared.Message(key), nil).WithData(gin.H{
			"product_id":   stockErr.ProductID,
			"product_name": stockErr.ProductName,
			"requested":    stockErr.Requested,
			"available":    stockErr.Available,
		}))
		return
	}
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutErrorRules, discountCodeErrorRules), response.CodeInternal, "error.order_create_failed")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondUserOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, userOrderErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondPasswordResetError(c *gin.Context, err error) {
	respondWithMappedError(c, err, passwordResetErrorRules, response.CodeInternal, "error.password_reset_failed")
}
