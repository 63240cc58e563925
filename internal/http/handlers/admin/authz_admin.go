package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/vestra-shop/internal/authz"
	handlershared "github.com/vestra-shop/internal/http/handlers/shared"
	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/logger"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzInheritPayload struct {
	Role   string `json:"role" binding:"required"`
	Parent string `json:"parent" binding:"required"`
}

// GetAuthzMe 获取当前用户角色与策略快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	role := c.GetString(handlershared.ContextRole)
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_unavailable", err)
		return
	}
	response.Success(c, gin.H{
		"user_id":  c.GetUint(handlershared.ContextUserID),
		"role":     role,
		"policies": policies,
	})
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	logger.Infow("admin_authz_policy_granted",
		"operator_user_id", c.GetUint(handlershared.ContextUserID),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	logger.Infow("admin_authz_policy_revoked",
		"operator_user_id", c.GetUint(handlershared.ContextUserID),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// InheritAuthzRole 设置角色继承
func (h *Handler) InheritAuthzRole(c *gin.Context) {
	var req authzInheritPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.InheritRole(req.Role, req.Parent); err != nil {
		respondAuthzError(c, err)
		return
	}
	logger.Infow("admin_authz_role_inherited",
		"operator_user_id", c.GetUint(handlershared.ContextUserID),
		"role", req.Role,
		"parent", req.Parent,
	)
	response.Success(c, nil)
}

// respondAuthzError 输入类错误返回 400，其余视为授权服务不可用
func respondAuthzError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrRoleRequired),
		errors.Is(err, authz.ErrActionRequired),
		errors.Is(err, authz.ErrSelfInherit):
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
	default:
		respondError(c, response.CodeInternal, "error.authz_unavailable", err)
	}
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
