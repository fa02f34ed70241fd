package api_router

import (
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler version info API router handler
// VersionHandler 版本信息 API 路由处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler creates VersionHandler instance
// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(h *Handler) *VersionHandler {
	return &VersionHandler{Handler: h}
}

// ServerVersion retrieves server version information
// @Summary Get server version info
// @Description Get current server software version, Git tag, and build time
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.VersionDTO} "Success"
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	versionInfo := h.App.Version()
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.VersionDTO{
		Name:      c.GetString(middleware.AppNameKey),
		Version:   versionInfo.Version,
		GitTag:    versionInfo.GitTag,
		BuildTime: versionInfo.BuildTime,
	}))
}
