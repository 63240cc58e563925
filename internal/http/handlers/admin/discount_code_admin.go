package admin

import (
	"strings"

	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var discountCodeErrorRules = []mappedHandlerError{
	{Target: service.ErrDiscountCodeNotFound, Code: response.CodeNotFound, Key: "error.discount_code_not_found"},
	{Target: service.ErrDiscountCodeExists, Code: response.CodeBadRequest, Key: "error.discount_code_exists"},
	{Target: service.ErrDiscountCodeInvalid, Code: response.CodeBadRequest, Key: "error.discount_code_invalid"},
}

// DiscountCodeUpsertRequest 优惠码创建/更新请求
type DiscountCodeUpsertRequest struct {
	Code        string          `json:"code" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Value       decimal.Decimal `json:"value"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	UsageLimit  int             `json:"usage_limit"`
	StartsAt    string          `json:"starts_at"`
	EndsAt      string          `json:"ends_at"`
	IsActive    *bool           `json:"is_active"`
}

func (r DiscountCodeUpsertRequest) toInput() (service.DiscountCodeInput, error) {
	startsAt, err := parseTimeNullable(r.StartsAt)
	if err != nil {
		return service.DiscountCodeInput{}, err
	}
	endsAt, err := parseTimeNullable(r.EndsAt)
	if err != nil {
		return service.DiscountCodeInput{}, err
	}
	return service.DiscountCodeInput{
		Code:        r.Code,
		Type:        strings.ToLower(strings.TrimSpace(r.Type)),
		Value:       r.Value,
		MinAmount:   r.MinAmount,
		MaxDiscount: r.MaxDiscount,
		UsageLimit:  r.UsageLimit,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		IsActive:    r.IsActive,
	}, nil
}

// ListDiscountCodes 优惠码列表
func (h *Handler) ListDiscountCodes(c *gin.Context) {
	page, pageSize := handlerPagination(c)
	isActive, err := parseBoolNullable(c.Query("is_active"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	codes, total, err := h.DiscountCodeService.List(repository.DiscountCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		IsActive: isActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, codes, response.BuildPagination(page, pageSize, total))
}

// GetDiscountCode 优惠码详情
func (h *Handler) GetDiscountCode(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	code, err := h.DiscountCodeService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, discountCodeErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, code)
}

// CreateDiscountCode 创建优惠码
func (h *Handler) CreateDiscountCode(c *gin.Context) {
	var req DiscountCodeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	code, err := h.DiscountCodeService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, discountCodeErrorRules, response.CodeInternal, "error.discount_code_save_failed")
		return
	}
	response.Success(c, code)
}

// UpdateDiscountCode 更新优惠码
func (h *Handler) UpdateDiscountCode(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	var req DiscountCodeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	code, err := h.DiscountCodeService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, discountCodeErrorRules, response.CodeInternal, "error.discount_code_save_failed")
		return
	}
	response.Success(c, code)
}

// DeleteDiscountCode 删除优惠码
func (h *Handler) DeleteDiscountCode(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	if err := h.DiscountCodeService.Delete(id); err != nil {
		respondWithMappedError(c, err, discountCodeErrorRules, response.CodeInternal, "error.discount_code_save_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
