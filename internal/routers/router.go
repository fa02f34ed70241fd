package routers

import (
	"fmt"
	"io/fs"
	"net/http"

	_ "github.com/haierkeys/fast-note-web/docs"
	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/internal/routers/api_router"
	"github.com/haierkeys/fast-note-web/pkg/inertia"
	"github.com/haierkeys/fast-note-web/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// NewRouter builds the public HTTP handler. frontendFiles must contain
// templates/ (page components) and static/ (assets).
// The engine is wrapped so HTML forms can spoof PUT, PATCH and DELETE.
func NewRouter(frontendFiles fs.FS, appContainer *app.App) (http.Handler, error) {
	engine, err := newEngine(frontendFiles, appContainer, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	return middleware.MethodOverride(engine), nil
}

func newEngine(frontendFiles fs.FS, appContainer *app.App, reg prometheus.Registerer) (*gin.Engine, error) {
	// 获取配置
	cfg := appContainer.Config()
	lg := appContainer.Logger()
	version := appContainer.Version().Version

	templates, err := fs.Sub(frontendFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("frontend templates: %w", err)
	}
	static, err := fs.Sub(frontendFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("frontend static: %w", err)
	}

	assetVersion := cfg.App.AssetVersion
	if assetVersion == "" {
		assetVersion = version
	}
	pages, err := inertia.New(templates, assetVersion, TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	pages.Share(inertia.FlashProps)
	pages.Share(func(c *gin.Context) inertia.Props {
		return inertia.Props{"app": map[string]string{
			"name":    c.GetString(middleware.AppNameKey),
			"version": c.GetString(middleware.AppVersionKey),
		}}
	})

	httpMetrics, err := middleware.NewHTTPMetrics("fastnote", reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	// 创建 Handlers（注入 App Container）
	h := api_router.NewHandler(appContainer, pages)
	noteHandler := api_router.NewNoteHandler(h)
	healthHandler := api_router.NewHealthHandler(h)
	versionHandler := api_router.NewVersionHandler(h)
	api_router.PublishVars(appContainer)

	r := gin.New()
	r.Use(middleware.AppInfoWithConfig(app.Name, version))
	r.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
	r.Use(httpMetrics.Handler())
	r.Use(middleware.LangWithValidator(appContainer.Validator, cfg.App.DefaultLang))
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.RecoveryWithLogger(lg, h.ErrorPage))
	r.Use(middleware.ContextTimeout(cfg.ContextTimeout(), h.ErrorPage))
	if cfg.Limiter.Enabled {
		r.Use(middleware.RateLimiter(limiter.NewRouteLimiter().AddBuckets(cfg.WriteRouteRules()...), h.ErrorPage))
	}

	cacheMiddleware := func(c *gin.Context) {
		// 设置强缓存，缓存一年
		c.Header("Cache-Control", "public, s-maxage=31536000, max-age=31536000, must-revalidate")
		c.Next()
	}
	r.Group("/static", cacheMiddleware).StaticFS("/", http.FS(static))

	r.GET("/", func(c *gin.Context) {
		pages.Redirect(c, "/notes")
	})

	notes := r.Group("/notes", pages.Middleware())
	{
		notes.GET("", noteHandler.Index)
		notes.GET("/create", noteHandler.Create)
		notes.POST("", noteHandler.Store)
		notes.GET("/:note", noteHandler.Show)
		notes.GET("/:note/edit", noteHandler.Edit)
		notes.PUT("/:note", noteHandler.Update)
		notes.PATCH("/:note", noteHandler.Update)
		notes.DELETE("/:note", noteHandler.Destroy)
	}

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/notes", noteHandler.List)
		api.GET("/notes/:note", noteHandler.Get)
	}

	if cfg.Server.RunMode == gin.DebugMode {
		r.GET("/swagger-doc.json", swaggerDocHandler())
		r.GET("/swagger/*any", ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger-doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
		))
	}

	r.NoRoute(middleware.NoFound(h.ErrorPage))

	return r, nil
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
