package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(f, []byte(body), 0644))
	return f
}

func TestLoadConfig_Defaults(t *testing.T) {
	f := writeConfig(t, "server:\n  run-mode: debug\ndatabase:\n  type: sqlite\n")

	cfg, realpath, err := LoadConfig(f)
	require.NoError(t, err)
	assert.Equal(t, f, realpath)
	assert.Equal(t, "debug", cfg.Server.RunMode)
	assert.Equal(t, ":9000", cfg.Server.HttpPort)
	assert.Equal(t, "@every 1m", cfg.App.StatsCron)
	assert.Equal(t, 60*time.Second, cfg.ContextTimeout())
	assert.Equal(t, "X-Trace-ID", cfg.Tracer.Header)

	d := cfg.DAOConfig()
	assert.Equal(t, "sqlite", d.Type)
	assert.Equal(t, "debug", d.RunMode)

	wq := cfg.GetWriteQueueConfig()
	assert.Equal(t, 100, wq.QueueCapacity)
	assert.Equal(t, 30*time.Second, wq.WriteTimeout)

	rules := cfg.WriteRouteRules()
	require.Len(t, rules, 4)
	assert.Equal(t, "POST /notes", rules[0].Key)
	assert.Equal(t, time.Second, rules[0].FillInterval)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = LoadConfig(writeConfig(t, "server: [broken"))
	assert.Error(t, err)
}

func TestConfigSave(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "app:\n  default-lang: en\n"))
	require.NoError(t, err)

	cfg.App.DefaultLang = "zh"
	require.NoError(t, cfg.Save())

	reloaded, _, err := LoadConfig(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, "zh", reloaded.App.DefaultLang)
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop(), nil, nil)
	assert.Error(t, err)

	cfg := &AppConfig{}
	_, err = NewApp(cfg, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewApp(cfg, zap.NewNop(), nil, nil)
	assert.Error(t, err)
}

func TestNewApp_SQLite(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "database:\n  path: "+filepath.Join(t.TempDir(), "notes.sqlite3")+"\n"))
	require.NoError(t, err)

	db, err := dao.NewDBEngineWithConfig(cfg.DAOConfig(), zap.NewNop())
	require.NoError(t, err)

	a, err := NewApp(cfg, zap.NewNop(), db, nil)
	require.NoError(t, err)
	require.NotNil(t, a.WriteQueueManager(), "sqlite writes go through the queue")
	assert.NotNil(t, a.Validator)
	assert.Equal(t, Version, a.Version().Version)

	ctx := context.Background()
	require.NoError(t, a.Ping(ctx))

	note, err := a.NoteService.Create(ctx, &dto.NoteInput{Excerpt: "Shopping list", Content: "milk"})
	require.NoError(t, err)

	outcome, err := a.PageService.Show(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes/Show", outcome.Component)

	done := a.TrackOperation()
	go func() {
		time.Sleep(20 * time.Millisecond)
		done()
	}()

	require.NoError(t, a.Shutdown(ctx))
	assert.True(t, a.IsShuttingDown())
	assert.NoError(t, a.Shutdown(ctx), "second shutdown is a no-op")
}

func TestLoadConfig_ExplicitZeroValuesWin(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "limiter:\n  enabled: false\ntracer:\n  enabled: false\napp:\n  stats-cron: \"\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Limiter.Enabled)
	assert.False(t, cfg.Tracer.Enabled)
	assert.Empty(t, cfg.App.StatsCron)
	assert.Equal(t, int64(20), cfg.Limiter.Capacity)
}
