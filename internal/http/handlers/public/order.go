package public

import (
	"strings"

	handlershared "github.com/vestra-shop/internal/http/handlers/shared"
	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求（商品来自购物车）
type CreateOrderRequest struct {
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	Notes           string                 `json:"notes"`
	DiscountCode    string                 `json:"discount_code"`
	Platform        string                 `json:"platform"`
}

func (r CreateOrderRequest) toInput(userID uint) service.CreateOrderInput {
	return service.CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   r.PaymentMethod,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
		DiscountCode:    r.DiscountCode,
		Platform:        r.Platform,
	}
}

// CreateOrderResponse 下单结果
type CreateOrderResponse struct {
	OrderID     uint         `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	TotalAmount models.Money `json:"total_amount"`
	FinalAmount models.Money `json:"final_amount"`
	Order       models.Order `json:"order"`
}

// PreviewOrder 订单金额预览
func (h *Handler) PreviewOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	preview, err := h.OrderService.PreviewOrder(c.Request.Context(), req.toInput(uid))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, preview)
}

// CreateOrder 从购物车创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.CreateOrder(c.Request.Context(), req.toInput(uid))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, CreateOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		FinalAmount: order.FinalAmount,
		Order:       *order,
	})
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := normalizePagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(c.Request.Context(), repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uid,
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNumber: strings.TrimSpace(c.Query("order_number")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 获取订单详情（仅限本人）
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseIDParam(c, "id", "error.order_id_invalid")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderDetails(c.Request.Context(), uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, userOrderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 用户取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseIDParam(c, "id", "error.order_id_invalid")
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), uid, orderID)
	if err != nil {
		respondUserOrderError(c, err)
		return
	}
	response.Success(c, order)
}
