// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/service"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/validator"
	"github.com/haierkeys/fast-note-web/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config    *AppConfig
	logger    *zap.Logger
	DB        *gorm.DB
	Dao       *dao.Dao
	Validator *validator.CustomValidator

	// sqlite 单写者，写操作经队列串行化
	writeQueueMgr *writequeue.Manager

	// Repository 层
	NoteRepo domain.NoteRepository

	// Service 层
	NoteService service.NoteService
	PageService *service.NotePageService

	StartTime time.Time

	// 关闭控制
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
// v: 参数校验器，为空时新建
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB, v *validator.CustomValidator) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if v == nil {
		v = validator.NewCustomValidator()
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		Validator:  v,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	dbConfig := cfg.DAOConfig()
	opts := []dao.Option{
		dao.WithConfig(&dbConfig),
		dao.WithLogger(logger),
	}

	// 只有 sqlite 需要串行写入，mysql/postgres 由数据库自身处理并发
	wqConfig := cfg.GetWriteQueueConfig()
	if db.Dialector.Name() == "sqlite" {
		a.writeQueueMgr = writequeue.New(&wqConfig, logger)
		opts = append(opts, dao.WithWriteQueueManager(a.writeQueueMgr))
	}

	a.Dao = dao.New(db, opts...)

	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.NoteService = service.NewNoteService(a.NoteRepo, v, logger)
	a.PageService = service.NewNotePageService(a.NoteService)

	logger.Info("App container initialized successfully",
		zap.String("dialect", a.Dao.Dialect()),
		zap.Bool("writeQueue", a.writeQueueMgr != nil),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Uptime 运行时长
func (a *App) Uptime() time.Duration {
	return time.Since(a.StartTime)
}

// Ping checks the primary database connection.
// Ping 检查数据库连接
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WriteQueueManager 获取 Write Queue Manager，非 sqlite 时为 nil
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：后台操作 -> Write Queue Manager -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	first := false
	a.shutdownOnce.Do(func() {
		close(a.shutdownCh)
		first = true
	})
	if !first {
		return nil
	}

	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	var errs []error

	// 1. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 2. 关闭 Write Queue Manager（排空队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		} else {
			a.logger.Info("write queue manager shutdown completed")
		}
	}

	// 3. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
