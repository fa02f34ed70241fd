package task

import (
	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/pkg/safe_close"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deps 任务共享的外部依赖
type Deps struct {
	// Registerer 指标注册器，为空时使用 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
	deps      Deps
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, a *app.App, deps Deps) *Manager {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
		app:       a,
		deps:      deps,
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app, m.deps)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			return err
		}
		if t == nil {
			continue
		}
		if err := m.scheduler.AddTask(t); err != nil {
			m.logger.Warn("failed to add task", zap.String("name", t.Name()), zap.Error(err))
			return err
		}
		m.logger.Info("task registered", zap.String("name", t.Name()), zap.String("spec", t.Spec()))
	}
	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
