package middleware

import (
	"time"

	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogWithLogger 访问日志
func AccessLogWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		startTime := time.Now()
		c.Next()

		timeCost := time.Since(startTime)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", path+"?"+query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(logger.FieldDuration, timeCost),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		}
		if id := GetTraceIDFromGin(c); id != "" {
			fields = append(fields, zap.String(logger.FieldTraceID, id))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		if c.Writer.Status() >= 500 {
			lg.Warn(path, fields...)
			return
		}
		lg.Info(path, fields...)
	}
}
