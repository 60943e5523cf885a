package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledLoggingIsNoOp(t *testing.T) {
	require.NoError(t, Initialize("", false, "info"))
	t.Cleanup(CloseAll)

	assert.False(t, IsDebugMode())

	// Must not panic or create files.
	l := Get(CategoryPlanning)
	l.Info("ignored %d", 1)
	l.Error("also ignored")
}

func TestDebugLoggingWritesCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, true, "debug"))
	t.Cleanup(func() {
		CloseAll()
		require.NoError(t, Initialize("", false, "info"))
	})

	Get(CategoryQuality).Info("score computed: %d", 85)
	CloseAll()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var found bool
	for _, entry := range entries {
		if strings.Contains(entry.Name(), string(CategoryQuality)) {
			found = true
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			require.NoError(t, err)
			assert.Contains(t, string(data), "score computed: 85")
		}
	}
	assert.True(t, found, "quality log file not created")
}

func TestDebugModeRequiresDirectory(t *testing.T) {
	err := Initialize("", true, "info")
	assert.Error(t, err)
}

func TestCategoryFiltering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, true, "info"))
	t.Cleanup(func() {
		SetCategories(nil)
		CloseAll()
		require.NoError(t, Initialize("", false, "info"))
	})

	SetCategories(map[string]bool{string(CategoryStore): false})
	Get(CategoryStore).Info("suppressed")
	CloseAll()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), string(CategoryStore))
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer(CategoryPlanning, "op")
	elapsed := timer.Stop()
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
}
