package response

import "errors"

// AppError 接口层错误：业务码、消息键、展示消息与原始错误
type AppError struct {
	Code    int
	Key     string
	Message string
	Data    interface{}
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Key
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 按消息键构造接口错误
func NewAppError(code int, key, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Key:     key,
		Message: message,
		Err:     err,
	}
}

// WithData 附带错误详情（例如库存不足的商品信息）
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// AsAppError 从错误链中取出 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}
