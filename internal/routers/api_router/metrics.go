package api_router

import (
	"expvar"
	"sync"
	"sync/atomic"

	"github.com/haierkeys/fast-note-web/internal/app"

	"github.com/gin-gonic/gin"
)

var (
	publishOnce sync.Once
	published   atomic.Pointer[app.App]
)

// PublishVars exposes name, version and uptime under the "fastnote" expvar key.
// expvar.Publish panics on duplicate names, a config reload only swaps the container.
// PublishVars 发布运行时变量
func PublishVars(a *app.App) {
	published.Store(a)
	publishOnce.Do(func() {
		expvar.Publish("fastnote", expvar.Func(func() any {
			a := published.Load()
			if a == nil {
				return nil
			}
			return map[string]any{
				"name":    app.Name,
				"version": a.Version(),
				"uptime":  a.Uptime().Seconds(),
			}
		}))
	})
}

// Expvar 导出系统运行时指标 (expvar) 的 JSON 数据
func Expvar(c *gin.Context) {
	expvar.Handler().ServeHTTP(c.Writer, c.Request)
}
