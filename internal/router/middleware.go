package router

import (
	"errors"
	"strings"
	"time"

	"github.com/vestra-shop/internal/authz"
	"github.com/vestra-shop/internal/config"
	handlershared "github.com/vestra-shop/internal/http/handlers/shared"
	"github.com/vestra-shop/internal/http/response"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"Content-Type", "Authorization", requestIDHeader}
	}
	maxAge := 12 * time.Hour
	if cfg.MaxAge > 0 {
		maxAge = time.Duration(cfg.MaxAge) * time.Second
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return originAllowed(origin, allowedOrigins)
		},
		AllowMethods:     allowedMethods,
		AllowHeaders:     allowedHeaders,
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           maxAge,
	})
}

func originAllowed(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequest(c.Request.Context(), requestID))
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if uid, ok := c.Get(handlershared.ContextUserID); ok {
			entry = entry.With("user_id", uid)
		}
		if len(c.Errors) > 0 {
			entry.Errorw("request", "errors", c.Errors.String())
			return
		}
		entry.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

func abortWith(c *gin.Context, code int, key string) {
	response.Error(c, code, handlershared.Message(key))
	c.Abort()
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
// 令牌由外部身份服务签发，校验通过后按本地用户状态放行
func UserJWTAuthMiddleware(tokens *service.TokenService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil || users == nil {
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer")) || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil || claims.Purpose != "" {
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}

		state, err := users.ResolveAuthState(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, service.ErrTokenInvalid) {
				abortWith(c, response.CodeUnauthorized, "error.unauthorized")
				return
			}
			logger.FromContext(c.Request.Context()).Errorw("user_auth_state_resolve_failed", "user_id", claims.UserID, "error", err)
			abortWith(c, response.CodeInternal, "error.internal")
			return
		}
		if !state.Active() {
			abortWith(c, response.CodeForbidden, "error.user_disabled")
			return
		}

		c.Set(handlershared.ContextUserID, state.UserID)
		c.Set(handlershared.ContextRole, state.Role)
		email := state.Email
		if email == "" {
			email = claims.Email
		}
		c.Set(handlershared.ContextEmail, email)
		c.Request = c.Request.WithContext(logger.WithUser(c.Request.Context(), state.UserID))
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件（需在 UserJWTAuthMiddleware 之后）
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortWith(c, response.CodeForbidden, "error.authz_unavailable")
			return
		}

		role := c.GetString(handlershared.ContextRole)
		if strings.TrimSpace(role) == "" {
			abortWith(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWith(c, response.CodeForbidden, "error.forbidden")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"role", role,
				"user_id", c.GetUint(handlershared.ContextUserID),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			abortWith(c, response.CodeForbidden, "error.forbidden")
			return
		}

		c.Next()
	}
}
