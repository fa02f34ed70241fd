package task

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// NoteStatsTask 定时刷新笔记总数指标
type NoteStatsTask struct {
	notes   service.NoteService
	gauge   prometheus.Gauge
	spec    string
	logger  *zap.Logger
	track   func() func()
	closing func() bool
}

// Name 返回任务名称
func (t *NoteStatsTask) Name() string {
	return "NoteStats"
}

// Spec 返回 cron 表达式
func (t *NoteStatsTask) Spec() string {
	return t.spec
}

// IsStartupRun 是否立即执行一次
func (t *NoteStatsTask) IsStartupRun() bool {
	return true
}

// Run 统计笔记总数
func (t *NoteStatsTask) Run(ctx context.Context) error {
	if t.closing != nil && t.closing() {
		return nil
	}
	if t.track != nil {
		defer t.track()()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	n, err := t.notes.Count(ctx)
	if err != nil {
		return err
	}
	t.gauge.Set(float64(n))

	t.logger.Debug("task log",
		zap.String("task", t.Name()),
		zap.Int64("notes", n))
	return nil
}

// newNotesGauge registers fastnote_notes_total, reusing an existing collector on reload.
func newNotesGauge(reg prometheus.Registerer) (prometheus.Gauge, error) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fastnote",
		Name:      "notes_total",
		Help:      "Number of stored notes.",
	})
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return g, nil
}

// NewNoteStatsTask 创建笔记统计任务，app.stats-cron 为空时不启用
func NewNoteStatsTask(a *app.App, d Deps) (Task, error) {
	spec := a.Config().App.StatsCron
	if spec == "" {
		return nil, nil
	}
	gauge, err := newNotesGauge(d.Registerer)
	if err != nil {
		return nil, err
	}
	return &NoteStatsTask{
		notes:   a.NoteService,
		gauge:   gauge,
		spec:    spec,
		logger:  a.Logger(),
		track:   a.TrackOperation,
		closing: a.IsShuttingDown,
	}, nil
}

func init() {
	Register(NewNoteStatsTask)
}
