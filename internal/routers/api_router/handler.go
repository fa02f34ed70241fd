// Package api_router 提供 HTTP 路由处理器
package api_router

import (
	"context"
	"net/http"
	"strings"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/inertia"
	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorComponent 通用错误页面组件
const ErrorComponent = "Error"

// Handler 基础 Handler 结构体，封装 App Container 与页面渲染器
// 所有 Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App   *app.App
	Pages *inertia.Renderer
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App, pages *inertia.Renderer) *Handler {
	return &Handler{App: a, Pages: pages}
}

// render writes component, falling back to a plain 500 when the template fails.
func (h *Handler) render(c *gin.Context, status int, component string, props map[string]any) {
	c.Set("status_code", status)
	if err := h.Pages.Render(c, status, component, inertia.Props(props)); err != nil {
		h.logError(c.Request.Context(), "Handler.render", err, zap.String(logger.FieldComponent, component))
		c.String(http.StatusInternalServerError, code.ErrorServerInternal.MsgIn(pkgapp.Locale(c)))
	}
}

// ErrorPage writes cd as the Error page, or as JSON under /api and when no renderer is set.
// It satisfies middleware.ErrorWriter.
// ErrorPage 输出错误页面
func (h *Handler) ErrorPage(c *gin.Context, cd *code.Code) {
	if h.Pages == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") || !h.Pages.HasComponent(ErrorComponent) {
		middleware.JSONError(c, cd)
		return
	}
	h.render(c, cd.StatusCode(), ErrorComponent, map[string]any{
		"status":  cd.StatusCode(),
		"message": cd.MsgIn(pkgapp.Locale(c)),
	})
}

func (h *Handler) logError(ctx context.Context, method string, err error, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	}, fields...)
	h.App.Logger().Error(method, fields...)
}
