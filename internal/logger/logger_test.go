package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"pagure/internal/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pagure.log")

	log := logger.NewLogger("warn", file)
	log.Info("dropped")
	log.Warn("merge denied", zap.String("pr_id", "42"))
	_ = log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"merge denied"`)
	require.Contains(t, string(data), `"pr_id":"42"`)
	require.NotContains(t, string(data), "dropped")
}

func TestNewLogger_BadLevel(t *testing.T) {
	log := logger.NewLogger("verbose", "")
	require.True(t, log.Core().Enabled(zap.InfoLevel))
	require.False(t, log.Core().Enabled(zap.DebugLevel))
}
