package shared

// messages 错误码键到对外提示文案
var messages = map[string]string{
	"error.bad_request":               "invalid request",
	"error.unauthorized":              "unauthorized",
	"error.forbidden":                 "forbidden",
	"error.user_disabled":             "account disabled",
	"error.user_id_invalid":           "invalid user id",
	"error.user_id_type_invalid":      "invalid user id type",
	"error.too_many_requests":         "too many requests, please try again later",
	"error.internal":                  "internal server error",
	"error.not_found":                 "resource not found",
	"error.product_not_found":         "product not found",
	"error.product_inactive":          "product is not available",
	"error.product_slug_exists":       "product slug already exists",
	"error.product_size_invalid":      "invalid size for this product",
	"error.product_invalid":           "invalid product",
	"error.product_fetch_failed":      "failed to load products",
	"error.product_save_failed":       "failed to save product",
	"error.cart_item_not_found":       "cart item not found",
	"error.cart_quantity_invalid":     "quantity must be at least 1",
	"error.cart_fetch_failed":         "failed to load cart",
	"error.cart_update_failed":        "failed to update cart",
	"error.cart_empty":                "cart is empty",
	"error.stock_insufficient":        "insufficient stock",
	"error.checkout_invalid":          "invalid checkout details",
	"error.order_id_invalid":          "invalid order id",
	"error.order_not_found":           "order not found",
	"error.order_status_invalid":      "invalid order status",
	"error.order_status_transition":   "order status transition not allowed",
	"error.order_cancel_not_allowed":  "order can no longer be cancelled",
	"error.order_create_failed":       "order create failed",
	"error.order_update_failed":       "order update failed",
	"error.order_fetch_failed":        "failed to load orders",
	"error.payment_status_invalid":    "invalid payment status",
	"error.discount_code_not_found":   "discount code not found",
	"error.discount_code_inactive":    "discount code is inactive",
	"error.discount_code_not_started": "discount code is not active yet",
	"error.discount_code_expired":     "discount code has expired",
	"error.discount_code_exhausted":   "discount code usage limit reached",
	"error.discount_code_min_amount":  "order total does not meet the discount minimum",
	"error.discount_code_invalid":     "invalid discount code",
	"error.discount_code_exists":      "discount code already exists",
	"error.discount_code_save_failed": "failed to save discount code",
	"error.banner_not_found":          "banner not found",
	"error.banner_invalid":            "invalid banner",
	"error.banner_save_failed":        "failed to save banner",
	"error.notification_not_found":    "notification not found",
	"error.notification_fetch_failed": "failed to load notifications",
	"error.dashboard_range_invalid":   "invalid dashboard range",
	"error.dashboard_fetch_failed":    "failed to load dashboard",
	"error.email_invalid":             "invalid email address",
	"error.otp_invalid":               "invalid verification code",
	"error.otp_expired":               "verification code expired, please request a new one",
	"error.otp_too_many_attempts":     "too many attempts, please request a new code",
	"error.otp_unavailable":           "verification service temporarily unavailable",
	"error.password_reset_failed":     "password reset failed",
	"error.user_not_found":            "user not found",
	"error.user_invalid":              "invalid user update",
	"error.user_update_failed":        "failed to update user",
	"error.user_fetch_failed":         "failed to load users",
	"error.authz_unavailable":         "authorization service unavailable",
}

// Message 返回键对应的提示文案，未登记的键原样返回
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
