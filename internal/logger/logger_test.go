package logger_test

import (
	"errors"
	"net/http/httptest"
	"taskBoard/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	require.NoError(t, logger.Init(false, "warn"))
	assert.False(t, logger.Logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Logger.Core().Enabled(zap.WarnLevel))

	require.NoError(t, logger.Init(true, ""))
	assert.True(t, logger.Logger.Core().Enabled(zap.DebugLevel))

	assert.Error(t, logger.Init(false, "loud"))
}

// TestHelpers тестирует, что обёртки пишут поля в zap
func TestHelpers(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	core, logs := observer.New(zap.DebugLevel)
	logger.Logger = zap.New(core)

	logger.Error("Service: сбой", errors.New("boom"), zap.String("task_id", "42"))
	logger.HttpRequestInfo(httptest.NewRequest("GET", "/board?x=1", nil), "HTTP_IN:")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "Service: сбой", entries[0].Message)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	assert.Equal(t, "42", entries[0].ContextMap()["task_id"])

	assert.Equal(t, "/board", entries[1].ContextMap()["path"])
	assert.Equal(t, "x=1", entries[1].ContextMap()["query"])
}
