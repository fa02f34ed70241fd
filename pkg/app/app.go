package app

import (
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/validator"

	"github.com/gin-gonic/gin"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// Res 是统一的 JSON 响应结构：Code/Status/Message/Data
// 可选字段 Details 使用 omitempty（nil 则不会被序列化）
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// Locale returns the language negotiated for this request.
// Locale 当前请求语言
func Locale(c *gin.Context) string {
	return validator.LocaleFrom(c.Request.Context())
}

// ToResponse writes codeObj as JSON using its HTTP status and the request language.
// ToResponse 输出到浏览器
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.MsgIn(Locale(r.Ctx)),
		Data:    codeObj.Data(),
	}

	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	r.send(codeObj.StatusCode(), content)
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
