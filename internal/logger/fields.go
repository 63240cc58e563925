package logger

import (
	"context"

	"go.uber.org/zap"
)

// 结构化日志常用字段名
const (
	FieldRequestID   = "request_id"
	FieldUserID      = "user_id"
	FieldOrderID     = "order_id"
	FieldOrderNumber = "order_number"
	FieldEventID     = "event_id"
	FieldTaskID      = "task_id"
	FieldTaskType    = "task_type"
)

type ctxKey struct{}

// WithContext 将带字段的 logger 放入 context
func WithContext(ctx context.Context, kv ...interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, FromContext(ctx).With(kv...))
}

// FromContext 取出 context 中的 logger，不存在时返回全局 logger
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return S()
}

// WithRequest 绑定请求 ID
func WithRequest(ctx context.Context, requestID string) context.Context {
	return WithContext(ctx, FieldRequestID, requestID)
}

// WithUser 绑定当前登录用户
func WithUser(ctx context.Context, userID uint) context.Context {
	return WithContext(ctx, FieldUserID, userID)
}

// WithOrder 绑定订单；订单号尚未生成时只记主键
func WithOrder(ctx context.Context, orderID uint, orderNumber string) context.Context {
	if orderNumber == "" {
		return WithContext(ctx, FieldOrderID, orderID)
	}
	return WithContext(ctx, FieldOrderID, orderID, FieldOrderNumber, orderNumber)
}

// WithTask 绑定异步任务
func WithTask(ctx context.Context, taskID, taskType string) context.Context {
	return WithContext(ctx, FieldTaskID, taskID, FieldTaskType, taskType)
}

// WithEvent 绑定领域事件及其所属订单
func WithEvent(ctx context.Context, eventID string, orderID uint) context.Context {
	return WithContext(ctx, FieldEventID, eventID, FieldOrderID, orderID)
}

// ForRequest 返回带 request_id 的 logger，用于拿不到请求 context 的位置
func ForRequest(requestID string) *zap.SugaredLogger {
	if requestID == "" {
		return S()
	}
	return S().With(FieldRequestID, requestID)
}
