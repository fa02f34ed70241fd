package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePath(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "storage", "database", "db.sqlite3")

	assert.False(t, IsExist(filepath.Dir(dst)))
	require.NoError(t, CreatePath(dst, os.ModePerm))
	assert.True(t, IsExist(filepath.Dir(dst)))
	assert.False(t, IsExist(dst))
}
