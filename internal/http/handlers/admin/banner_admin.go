package admin

import (
	"strings"

	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-gonic/gin"
)

var bannerErrorRules = []mappedHandlerError{
	{Target: service.ErrBannerNotFound, Code: response.CodeNotFound, Key: "error.banner_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.banner_invalid"},
}

// BannerUpsertRequest Banner 创建/更新请求
type BannerUpsertRequest struct {
	Title     string `json:"title" binding:"required"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"image_url" binding:"required"`
	LinkURL   string `json:"link_url"`
	Position  string `json:"position" binding:"required"`
	IsActive  *bool  `json:"is_active"`
	StartAt   string `json:"start_at"`
	EndAt     string `json:"end_at"`
	SortOrder int    `json:"sort_order"`
}

func (r BannerUpsertRequest) toInput() (service.BannerInput, error) {
	startAt, err := parseTimeNullable(r.StartAt)
	if err != nil {
		return service.BannerInput{}, err
	}
	endAt, err := parseTimeNullable(r.EndAt)
	if err != nil {
		return service.BannerInput{}, err
	}
	return service.BannerInput{
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		ImageURL:  r.ImageURL,
		LinkURL:   r.LinkURL,
		Position:  r.Position,
		IsActive:  r.IsActive,
		StartAt:   startAt,
		EndAt:     endAt,
		SortOrder: r.SortOrder,
	}, nil
}

// ListBanners 获取后台 Banner 列表
func (h *Handler) ListBanners(c *gin.Context) {
	page, pageSize := handlerPagination(c)
	isActive, err := parseBoolNullable(c.Query("is_active"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	banners, total, err := h.BannerService.List(repository.BannerListFilter{
		Page:     page,
		PageSize: pageSize,
		Position: strings.TrimSpace(c.Query("position")),
		Search:   strings.TrimSpace(c.Query("search")),
		IsActive: isActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, banners, response.BuildPagination(page, pageSize, total))
}

// GetBanner 获取后台 Banner 详情
func (h *Handler) GetBanner(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	banner, err := h.BannerService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, bannerErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, banner)
}

// CreateBanner 创建 Banner
func (h *Handler) CreateBanner(c *gin.Context) {
	var req BannerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	banner, err := h.BannerService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, bannerErrorRules, response.CodeInternal, "error.banner_save_failed")
		return
	}
	response.Success(c, banner)
}

// UpdateBanner 更新 Banner
func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	var req BannerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	banner, err := h.BannerService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, bannerErrorRules, response.CodeInternal, "error.banner_save_failed")
		return
	}
	response.Success(c, banner)
}

// DeleteBanner 删除 Banner
func (h *Handler) DeleteBanner(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	if err := h.BannerService.Delete(id); err != nil {
		respondWithMappedError(c, err, bannerErrorRules, response.CodeInternal, "error.banner_save_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
