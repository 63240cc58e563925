package admin

import (
	"strings"

	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest 修改用户角色/状态
type UpdateUserRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := handlerPagination(c)
	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

// UpdateUser 修改用户角色或禁用账号
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "error.bad_request")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.Update(c.Request.Context(), id, service.UpdateUserInput{Role: req.Role, Status: req.Status})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
			{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.user_invalid"},
		}, response.CodeInternal, "error.user_update_failed")
		return
	}
	response.Success(c, user)
}
