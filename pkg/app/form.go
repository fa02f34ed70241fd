package app

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TranslatorKey gin context key holding the request ut.Translator
const TranslatorKey = "trans"

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 所有错误拼接为一行
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// MapsToString 字段 -> 错误消息，同一字段只保留第一条
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := m[err.Key]; !ok {
			m[err.Key] = err.Message
		}
	}
	return m
}

// Normalizer is implemented by request structs that clean their input before validation.
type Normalizer interface {
	Normalize()
}

// BindAndValid binds the request by content type and validates it.
// Structs implementing Normalizer are normalized before validation.
// BindAndValid 绑定并校验请求参数
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(v)

	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	if n, ok := v.(Normalizer); ok {
		n.Normalize()
		if binding.Validator == nil {
			err = nil
		} else {
			err = binding.Validator.ValidateStruct(v)
		}
	}
	if err == nil {
		return true, nil
	}

	if !errors.As(err, &verrs) {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value(TranslatorKey).(ut.Translator)
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}
	return false, errs
}
