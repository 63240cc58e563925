package public

import (
	"strconv"

	handlershared "github.com/vestra-shop/internal/http/handlers/shared"
	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ListNotifications 站内通知列表
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := normalizePagination(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	result, err := h.NotificationService.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     uid,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.notification_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"items":  result.Items,
		"unread": result.Unread,
	}, response.BuildPagination(page, pageSize, result.Total))
}

// MarkNotificationRead 标记通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.bad_request")
	if !ok {
		return
	}
	if err := h.NotificationService.MarkRead(uid, id); err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{Target: service.ErrNotificationNotFound, Code: response.CodeNotFound, Key: "error.notification_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"read": true})
}
