package public

import (
	"github.com/vestra-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PasswordResetRequest 申请密码重置验证码
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordResetVerifyRequest 校验密码重置验证码
type PasswordResetVerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RequestPasswordReset 发送验证码（邮箱是否注册均返回成功）
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.PasswordResetService.RequestCode(c.Request.Context(), req.Email); err != nil {
		respondPasswordResetError(c, err)
		return
	}
	response.SuccessWithMsg(c, "if the email is registered, a code has been sent", nil)
}

// VerifyPasswordReset 校验验证码并返回一次性重置凭证
func (h *Handler) VerifyPasswordReset(c *gin.Context) {
	var req PasswordResetVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.PasswordResetService.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondPasswordResetError(c, err)
		return
	}
	response.Success(c, result)
}
