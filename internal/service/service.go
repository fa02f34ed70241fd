// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/code"

	"gorm.io/gorm"
)

// ValidationError carries field -> message for rejected input. Nothing is written when it is returned.
// ValidationError 参数校验失败，字段 -> 错误消息
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldMessages 字段 -> 错误消息
func (e *ValidationError) FieldMessages() map[string]string {
	return e.Fields
}

// Unwrap lets errors.Is match code.ErrorNoteInvalidParams.
func (e *ValidationError) Unwrap() error {
	return code.ErrorNoteInvalidParams
}

// AsValidationError 提取校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

// IsNotFound reports whether err means the note does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, code.ErrorNoteNotFound)
}

// storeError maps repository errors onto codes
// storeError 将仓储错误转换为错误码
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return code.ErrorNoteNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return code.ErrorRequestTimeout.WithCause(err)
	default:
		return code.ErrorDBQuery.WithCause(err)
	}
}
