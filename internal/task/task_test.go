package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/service"
	"github.com/haierkeys/fast-note-web/pkg/safe_close"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingTask struct {
	spec    string
	startup bool
	runs    atomic.Int32
	err     error
	panics  bool
}

func (t *countingTask) Name() string       { return "counting" }
func (t *countingTask) Spec() string       { return t.spec }
func (t *countingTask) IsStartupRun() bool { return t.startup }
func (t *countingTask) Run(context.Context) error {
	t.runs.Add(1)
	if t.panics {
		panic("boom")
	}
	return t.err
}

func TestParseSpec(t *testing.T) {
	for _, spec := range []string{"@every 1m", "*/5 * * * *", "@hourly", "0 0 * * 0"} {
		_, err := ParseSpec(spec)
		assert.NoError(t, err, spec)
	}
	_, err := ParseSpec("every minute")
	assert.Error(t, err)
}

func TestScheduler_AddTaskRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop(), safe_close.NewSafeClose())
	assert.Error(t, s.AddTask(&countingTask{spec: "nope"}))
	assert.Empty(t, s.Tasks())
	assert.NoError(t, s.AddTask(&countingTask{spec: "@every 1s"}))
	assert.Len(t, s.Tasks(), 1)
}

func TestScheduler_RunsAndStops(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc)

	ok := &countingTask{spec: "@every 1s", startup: true}
	failing := &countingTask{spec: "@every 1s", startup: true, err: errors.New("fail")}
	panicking := &countingTask{spec: "@every 1s", startup: true, panics: true}
	for _, task := range []*countingTask{ok, failing, panicking} {
		require.NoError(t, s.AddTask(task))
	}
	s.Start()

	assert.Eventually(t, func() bool {
		return ok.runs.Load() >= 1 && failing.runs.Load() >= 1 && panicking.runs.Load() >= 1
	}, 3*time.Second, 10*time.Millisecond)

	sc.SendCloseSignal(nil)
	done := make(chan error, 1)
	go func() { done <- sc.WaitClosed() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNoteStatsTask(t *testing.T) {
	ctx := context.Background()
	notes := service.NewNoteService(dao.NewMemoryNoteRepository(), nil, zap.NewNop())
	for i := 0; i < 3; i++ {
		_, err := notes.Create(ctx, &dto.NoteInput{Excerpt: "e", Content: "c"})
		require.NoError(t, err)
	}

	reg := prometheus.NewRegistry()
	gauge, err := newNotesGauge(reg)
	require.NoError(t, err)

	// reload returns the collector registered first
	again, err := newNotesGauge(reg)
	require.NoError(t, err)
	assert.Same(t, gauge, again)

	task := &NoteStatsTask{notes: notes, gauge: gauge, spec: "@every 1m", logger: zap.NewNop()}
	require.NoError(t, task.Run(ctx))
	assert.Equal(t, 3.0, testutil.ToFloat64(gauge))

	task.closing = func() bool { return true }
	_, err = notes.Create(ctx, &dto.NoteInput{Excerpt: "e", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, task.Run(ctx))
	assert.Equal(t, 3.0, testutil.ToFloat64(gauge), "skipped while shutting down")
}
