// Package api_router 提供 HTTP 路由处理器
package api_router

import (
	"os"
	"runtime"

	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(h *Handler) *HealthHandler {
	return &HealthHandler{Handler: h}
}

// ProcessInfo 进程资源占用
type ProcessInfo struct {
	RSS           uint64  `json:"rss"`           // 常驻内存（字节）
	MemoryPercent float32 `json:"memoryPercent"` // 占系统内存百分比
	NumGoroutine  int     `json:"numGoroutine"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status            string       `json:"status"`   // "healthy" 或 "unhealthy"
	Version           string       `json:"version"`  // 服务版本号
	Uptime            float64      `json:"uptime"`   // 运行时间（秒）
	Database          string       `json:"database"` // "connected" 或 "error"
	Notes             int64        `json:"notes"`    // 笔记总数，数据库异常时为 -1
	Process           *ProcessInfo `json:"process,omitempty"`
	SystemMemoryUsage float64      `json:"systemMemoryUsage,omitempty"` // 系统内存使用率
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接与进程内存
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=HealthResponse}
// @Failure 500 {object} pkgapp.Res{data=HealthResponse}
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   h.App.Uptime().Seconds(),
		Database: "connected",
		Notes:    -1,
		Process:  processInfo(),
	}
	if vMem, err := mem.VirtualMemory(); err == nil {
		response.SystemMemoryUsage = vMem.UsedPercent
	}

	// 检查数据库连接
	if err := h.App.Ping(ctx); err != nil {
		h.logError(ctx, "HealthHandler.Check", err)
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	if n, err := h.App.NoteService.Count(ctx); err == nil {
		response.Notes = n
	} else {
		h.App.Logger().Warn("HealthHandler.Check count err", zap.Error(err))
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}

func processInfo() *ProcessInfo {
	info := &ProcessInfo{NumGoroutine: runtime.NumGoroutine()}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return info
	}
	if m, err := p.MemoryInfo(); err == nil {
		info.RSS = m.RSS
	}
	info.MemoryPercent, _ = p.MemoryPercent()
	return info
}
