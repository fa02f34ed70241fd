package middleware

import (
	"github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

// ErrorWriter writes a failure code as the response for c.
// ErrorWriter 输出错误响应
type ErrorWriter func(c *gin.Context, cd *code.Code)

// JSONError 以统一 JSON 结构输出错误
func JSONError(c *gin.Context, cd *code.Code) {
	app.NewResponse(c).ToResponse(cd)
}

func writerOrJSON(w ErrorWriter) ErrorWriter {
	if w == nil {
		return JSONError
	}
	return w
}

// NoFound 404 处理
func NoFound(w ErrorWriter) gin.HandlerFunc {
	w = writerOrJSON(w)
	return func(c *gin.Context) {
		w(c, code.ErrorNotFoundAPI)
		c.Abort()
	}
}
