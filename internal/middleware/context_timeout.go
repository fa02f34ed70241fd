package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

// ContextTimeout bounds the request context. Handlers that have not written
// anything when the deadline passes get a timeout response.
// ContextTimeout 设置请求上下文超时，timeout <= 0 时不限制
func ContextTimeout(timeout time.Duration, w ErrorWriter) gin.HandlerFunc {
	w = writerOrJSON(w)
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			w(c, code.ErrorRequestTimeout)
		}
	}
}
