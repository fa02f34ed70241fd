package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	internalApp "github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/routers"
	"github.com/haierkeys/fast-note-web/internal/task"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/safe_close"
	"github.com/haierkeys/fast-note-web/pkg/tracer"
	"github.com/haierkeys/fast-note-web/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type Server struct {
	logger            *zap.Logger            // 日志对象
	config            *internalApp.AppConfig // 应用配置
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App // App Container
}

type serverHolder struct {
	p atomic.Pointer[Server]
}

func newServerHolder(s *Server) *serverHolder {
	h := &serverHolder{}
	h.p.Store(s)
	return h
}

func (h *serverHolder) Load() *Server   { return h.p.Load() }
func (h *serverHolder) Store(s *Server) { h.p.Store(s) }

func NewServer(runEnv *runFlags) (*Server, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 命令行参数优先于配置文件
	if len(runEnv.runMode) > 0 {
		appConfig.Server.RunMode = runEnv.runMode
	}
	if len(runEnv.port) > 0 {
		appConfig.Server.HttpPort = runEnv.port
	}

	if len(appConfig.Server.RunMode) > 0 {
		gin.SetMode(appConfig.Server.RunMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	lg, err := logger.NewLogger(appConfig.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}
	s.logger = lg

	closer, err := tracer.Setup(tracer.Config{
		ServiceName: internalApp.Name,
		AgentHost:   appConfig.Tracer.JaegerAgent,
		SampleRate:  appConfig.Tracer.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("initTracer: %w", err)
	}

	app, err := openApp(appConfig, lg)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	s.app = app

	initScheduler(s)

	banner := `
    ______           __     _   __      __          _       __     __
   / ____/___ ______/ /_   / | / /___  / /____     | |     / /__  / /_
  / /_  / __ ` + "`" + `/ ___/ __/  /  |/ / __ \/ __/ _ \    | | /| / / _ \/ __ \
 / __/ / /_/ (__  ) /_   / /|  / /_/ / /_/  __/    | |/ |/ /  __/ /_/ /
/_/    \__,_/____/\__/  /_/ |_/\____/\__/\___/     |__/|__/\___/_.___/ `
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		handler, err := routers.NewRouter(frontendFiles, s.app)
		if err != nil {
			_ = s.app.Shutdown(context.Background())
			_ = closer.Close()
			return nil, fmt.Errorf("initRouter: %w", err)
		}

		s.logger.Warn("api_router", zap.String("config.server.HttpPort", httpAddr))
		s.httpServer = &http.Server{
			Addr:           httpAddr,
			Handler:        handler,
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.sc.Attach(s.serve("api service", s.httpServer))
	}

	if httpAddr := appConfig.Server.PrivateHttpListen; len(httpAddr) > 0 {
		s.logger.Info("api_router", zap.String("config.server.PrivateHttpListen", httpAddr))
		s.privateHttpServer = &http.Server{
			Addr:           httpAddr,
			Handler:        routers.NewPrivateRouterWithLogger(appConfig.Server.RunMode, s.logger),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.sc.Attach(s.serve("private api service", s.privateHttpServer))
	}

	// App Container 优雅关闭，HTTP 服务停止后再关闭数据库
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal

		ctx, cancel := context.WithTimeout(context.Background(), internalApp.DefaultShutdownTimeout)
		defer cancel()

		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown app container", zap.Error(err))
		} else {
			s.logger.Info("App container shutdown gracefully")
		}
		closeTracer(closer, s.logger)
	})

	return s, nil
}

// serve runs srv until the close signal, then shuts it down with a short grace period.
func (s *Server) serve(name string, srv *http.Server) func(done func(), closeSignal <-chan struct{}) {
	return func(done func(), closeSignal <-chan struct{}) {
		defer done()
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error(name+" err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// 停止 HTTP 服务器
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
		}
	}
}

func closeTracer(c io.Closer, lg *zap.Logger) {
	if err := c.Close(); err != nil {
		lg.Warn("close tracer", zap.Error(err))
	}
}

// openApp creates the storage directories, the database and the App Container.
// It is shared by the run and seed commands.
// openApp 初始化目录、数据库与应用容器
func openApp(cfg *internalApp.AppConfig, lg *zap.Logger) (*internalApp.App, error) {
	if err := initStorageWithConfig(cfg); err != nil {
		return nil, fmt.Errorf("initStorage: %w", err)
	}

	db, err := dao.NewDBEngineWithConfig(cfg.DAOConfig(), lg)
	if err != nil {
		return nil, fmt.Errorf("initDatabase: %w", err)
	}

	if err := code.SetGlobalDefaultLang(cfg.App.DefaultLang); err != nil {
		lg.Warn("default language", zap.String("lang", cfg.App.DefaultLang), zap.Error(err))
	}

	// gin 绑定与服务层共用同一个校验器
	v := validator.NewCustomValidator()
	binding.Validator = v

	app, err := internalApp.NewApp(cfg, lg, db, v)
	if err != nil {
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}
	return app, nil
}

func initScheduler(s *Server) {
	manager := task.NewManager(s.logger, s.sc, s.app, task.Deps{})

	// 注册所有任务(业务层控制)
	if err := manager.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
		return
	}
	manager.Start()
}

// initStorageWithConfig 初始化日志与数据库目录
func initStorageWithConfig(cfg *internalApp.AppConfig) error {
	dirs := []string{filepath.Dir(cfg.Log.File)}
	if cfg.Database.Type == "" || cfg.Database.Type == "sqlite" {
		dirs = append(dirs, filepath.Dir(cfg.Database.Path))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetApp 获取 App Container
func (s *Server) GetApp() *internalApp.App {
	return s.app
}
