package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	internalApp "github.com/haierkeys/fast-note-web/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testChdir changes the working directory for the duration of the test.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestResolveConfig_WritesDefault(t *testing.T) {
	testChdir(t, t.TempDir())
	configDefault = "server:\n  run-mode: release\n"

	f, err := resolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, "config/config.yaml", f)

	body, err := os.ReadFile(f)
	require.NoError(t, err)
	assert.Equal(t, configDefault, string(body))

	// an existing file is picked up, nothing is rewritten
	f, err = resolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, "config/config.yaml", f)

	f, err = resolveConfig("custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", f)
}

func TestRunSeed(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf("log:\n  file: %s\n  production: false\ndatabase:\n  path: %s\n",
		filepath.Join(dir, "logs", "log.log"), filepath.Join(dir, "db", "notes.sqlite3"))
	require.NoError(t, os.WriteFile(config, []byte(body), 0644))

	require.NoError(t, runSeed(context.Background(), &seedFlags{config: config, count: 3, workers: 2, seed: 42}))

	cfg, _, err := internalApp.LoadConfig(config)
	require.NoError(t, err)
	app, err := openApp(cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	n, err := app.NoteService.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
