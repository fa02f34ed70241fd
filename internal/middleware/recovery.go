package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件，panic 以 500 响应
func RecoveryWithLogger(lg *zap.Logger, w ErrorWriter) gin.HandlerFunc {
	w = writerOrJSON(w)
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			fields := []zap.Field{
				zap.String("router", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
				zap.String("stack", string(debug.Stack())), // 错误堆栈
			}
			if err, ok := r.(error); ok {
				lg.Error("Recovered from panic", append(fields, zap.Error(err))...)
			} else {
				lg.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", fmt.Sprintf("%v", r)))...)
			}

			if c.Writer.Written() {
				c.Abort()
				return
			}
			w(c, code.ErrorServerInternal)
			c.Abort()
		}()

		c.Next()
	}
}
