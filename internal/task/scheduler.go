package task

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式，支持 @every 1m 这类描述符
	IsStartupRun() bool            // 是否立即执行一次
}

// specParser accepts five field expressions plus descriptors
var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSpec 解析 cron 表达式
func ParseSpec(spec string) (cron.Schedule, error) {
	schedule, err := specParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return schedule, nil
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	now    func() time.Time
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		now:    time.Now,
	}
}

// AddTask 添加任务，cron 表达式无效时返回错误
func (s *Scheduler) AddTask(task Task) error {
	if _, err := ParseSpec(task.Spec()); err != nil {
		return err
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Tasks 已注册任务
func (s *Scheduler) Tasks() []Task {
	return s.tasks
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting ", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// runOnce runs task and turns a panic into a log line
func (s *Scheduler) runOnce(task Task, mode string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("mode", mode),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	s.logger.Debug("task running", zap.String("name", task.Name()), zap.String("mode", mode))
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("mode", mode),
			zap.Error(err))
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(task Task) {
	// AddTask already validated the spec
	schedule, _ := ParseSpec(task.Spec())

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		if task.IsStartupRun() {
			go s.runOnce(task, "startupRun")
		}

		for {
			next := schedule.Next(s.now())
			if next.IsZero() {
				s.logger.Warn("task has no next run", zap.String("name", task.Name()))
				return
			}
			timer := time.NewTimer(time.Until(next))

			select {
			case <-timer.C:
				s.runOnce(task, "loopRun")
			case <-closeSignal:
				timer.Stop()
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}
