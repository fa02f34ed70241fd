package routers

import (
	"net/http"
	"net/http/pprof"

	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewPrivateRouterWithLogger creates the private router: expvar, prometheus and, in debug mode, pprof.
// NewPrivateRouterWithLogger 创建私有路由（使用注入的日志器）
func NewPrivateRouterWithLogger(runMode string, logger *zap.Logger) *gin.Engine {
	return newPrivateEngine(runMode, logger, prometheus.DefaultGatherer)
}

func newPrivateEngine(runMode string, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()

	if runMode == gin.DebugMode {
		r.Use(gin.Recovery())
	} else {
		r.Use(middleware.RecoveryWithLogger(logger, nil))
	}

	// prom监控
	r.GET("/debug/vars", api_router.Expvar)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if runMode == gin.DebugMode {
		p := r.Group("/debug/pprof")
		{
			p.GET("/", pprofHandler(pprof.Index))
			p.GET("/cmdline", pprofHandler(pprof.Cmdline))
			p.GET("/profile", pprofHandler(pprof.Profile))
			p.POST("/symbol", pprofHandler(pprof.Symbol))
			p.GET("/symbol", pprofHandler(pprof.Symbol))
			p.GET("/trace", pprofHandler(pprof.Trace))
			p.GET("/allocs", pprofHandler(pprof.Handler("allocs").ServeHTTP))
			p.GET("/block", pprofHandler(pprof.Handler("block").ServeHTTP))
			p.GET("/goroutine", pprofHandler(pprof.Handler("goroutine").ServeHTTP))
			p.GET("/heap", pprofHandler(pprof.Handler("heap").ServeHTTP))
			p.GET("/mutex", pprofHandler(pprof.Handler("mutex").ServeHTTP))
			p.GET("/threadcreate", pprofHandler(pprof.Handler("threadcreate").ServeHTTP))
		}
	}

	return r
}

func pprofHandler(h http.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
