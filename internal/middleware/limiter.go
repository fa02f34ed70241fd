package middleware

import (
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter 创建限流中间件，桶内无令牌时返回 429
func RateLimiter(l limiter.Face, w ErrorWriter) gin.HandlerFunc {
	w = writerOrJSON(w)
	return func(c *gin.Context) {
		if bucket, ok := l.GetBucket(l.Key(c)); ok {
			if bucket.TakeAvailable(1) == 0 {
				w(c, code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
