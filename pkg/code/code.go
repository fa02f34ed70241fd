package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// HTTP 状态码
	httpStatus int
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
	// 原始错误
	cause error
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers a failure code. httpStatus defaults to 500.
// NewError 注册一个错误码，httpStatus 默认为 500
func NewError(code int, l lang, httpStatus ...int) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	status := http.StatusInternalServerError
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &Code{code: code, status: false, httpStatus: status, Lang: l}
}

// NewSuss registers a success code. httpStatus defaults to 200.
// NewSuss 注册一个成功码，httpStatus 默认为 200
func NewSuss(code int, l lang, httpStatus ...int) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &Code{code: code, status: true, httpStatus: status, Lang: l}
}

// Clone 创建一个新的 Code 副本
// WithData/WithDetails/WithCause on a package level code must go through Clone first.
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		httpStatus: e.httpStatus,
		Lang:       e.Lang,
		details:    []string{},
	}
}

func (e *Code) Error() string {
	if e.cause != nil {
		return e.Msg() + ": " + e.cause.Error()
	}
	return e.Msg()
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Code) Unwrap() error {
	return e.cause
}

// Is reports whether target carries the same business code.
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code && t.status == e.status
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

// MsgIn returns the message in the given language, falling back to English.
// MsgIn 返回指定语言的消息
func (e *Code) MsgIn(language string) string {
	return e.Lang.GetMessageIn(language)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) Cause() error {
	return e.cause
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.details, c.haveDetails = e.details, e.haveDetails
	c.cause = e.cause
	c.haveData = true
	c.data = data
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.data, c.haveData = e.data, e.haveData
	c.cause = e.cause
	c.haveDetails = true
	c.details = append(c.details, details...)
	return c
}

// WithCause wraps an underlying error, keeping the code comparable via errors.Is.
// WithCause 包装原始错误
func (e *Code) WithCause(err error) *Code {
	c := e.Clone()
	c.data, c.haveData = e.data, e.haveData
	c.details, c.haveDetails = e.details, e.haveDetails
	c.cause = err
	return c
}

// StatusCode HTTP 状态码
func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}
