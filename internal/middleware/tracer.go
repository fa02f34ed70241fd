package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey Context 中存储 Trace ID 的键
	TraceIDKey = "trace_id"
)

type traceIDKey struct{}

// TraceMiddlewareWithConfig 创建请求追踪中间件
// 功能：
// 1. 从请求头获取或生成唯一的 Trace ID
// 2. 将 Trace ID 注入到 gin.Context 和 request.Context
// 3. 开启 opentracing span，数据库查询作为其子 span
// 4. 在响应头中返回 Trace ID
func TraceMiddlewareWithConfig(enabled bool, header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultTraceIDHeader
	}
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		traceID := c.GetHeader(header)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)

		tracer := opentracing.GlobalTracer()
		var opts []opentracing.StartSpanOption
		if parent, err := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(c.Request.Header)); err == nil {
			opts = append(opts, opentracing.ChildOf(parent))
		}
		span := tracer.StartSpan(c.Request.Method+" "+c.Request.URL.Path, opts...)
		defer span.Finish()
		ext.HTTPMethod.Set(span, c.Request.Method)
		ext.HTTPUrl.Set(span, c.Request.URL.String())
		span.SetTag("trace_id", traceID)

		ctx := context.WithValue(c.Request.Context(), traceIDKey{}, traceID)
		ctx = opentracing.ContextWithSpan(ctx, span)
		c.Request = c.Request.WithContext(ctx)

		c.Header(header, traceID)

		c.Next()

		ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
		if c.Writer.Status() >= 500 {
			ext.Error.Set(span, true)
		}
	}
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetTraceIDFromGin 从 gin.Context 获取 Trace ID
func GetTraceIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(TraceIDKey)
}
