package errors

import (
	"errors"
	"time"

	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// Fields 字段校验错误（可选）
	Fields map[string]string `json:"fields,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	status int
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode HTTP 状态码
func (e *AppError) StatusCode() int {
	return e.status
}

// FieldsError is implemented by errors that carry per field messages.
type FieldsError interface {
	error
	FieldMessages() map[string]string
}

// ErrorFrom returns the code carried by err, ErrorServerInternal for anything else.
// ErrorFrom 从错误链中取出错误码
func ErrorFrom(err error) *code.Code {
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}
	return code.ErrorServerInternal.WithCause(err)
}

// NewAppError 从错误创建 AppError，消息使用 language
func NewAppError(err error, language string) *AppError {
	c := ErrorFrom(err)
	appErr := &AppError{
		Code:      c.Code(),
		Message:   c.MsgIn(language),
		Details:   c.Details(),
		Cause:     err,
		Timestamp: time.Now(),
		status:    c.StatusCode(),
	}
	var fe FieldsError
	if errors.As(err, &fe) {
		appErr.Fields = fe.FieldMessages()
	}
	return appErr
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID，将错误转换为 AppError 并按错误码的 HTTP 状态返回 JSON
func ErrorResponse(c *gin.Context, err error) {
	appErr := NewAppError(err, app.Locale(c))
	appErr.TraceID = middleware.GetTraceIDFromGin(c)
	c.Set("status_code", appErr.status)
	c.JSON(appErr.status, appErr)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
