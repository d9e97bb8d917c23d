package zapadapter

import (
	"testing"

	"github.com/ankproject/ank-api/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"logur.dev/logur"
)

var _ logging.KVLogger = (*kvLogger)(nil)

func TestKVLogger_LogLevels(t *testing.T) {
	observedLogs, logs := observer.New(zap.InfoLevel)
	logger := NewKV(zap.New(observedLogs))

	logger.Trace("trace message")
	logger.Debug("debug message")
	logger.Info("info message", "uid", "u1")
	logger.Warn("warn message")
	logger.Error("error message")

	require.Equal(t, 3, logs.Len())

	testCases := []struct {
		level   zapcore.Level
		message string
	}{
		{zap.InfoLevel, "info message"},
		{zap.WarnLevel, "warn message"},
		{zap.ErrorLevel, "error message"},
	}

	for i, tc := range testCases {
		logEntry := logs.All()[i]
		assert.Equal(t, tc.level, logEntry.Level)
		assert.Equal(t, tc.message, logEntry.Message)
	}
	assert.Equal(t, "u1", logs.All()[0].ContextMap()["uid"])
}

func TestKVLogger_With(t *testing.T) {
	observedLogs, logs := observer.New(zap.InfoLevel)
	logger := NewKV(zap.New(observedLogs)).With("account_id", "acc_0123456789ab")

	logger.Info("account created")

	require.Equal(t, 1, logs.Len())
	logEntry := logs.All()[0]
	assert.Equal(t, "acc_0123456789ab", logEntry.ContextMap()["account_id"])
	assert.Equal(t, "account created", logEntry.Message)
}

func TestKVLogger_LevelEnabled(t *testing.T) {
	observedLogs, _ := observer.New(zap.WarnLevel)
	logger := NewKV(zap.New(observedLogs))

	assert.False(t, logger.LevelEnabled(logur.Debug))
	assert.False(t, logger.LevelEnabled(logur.Info))
	assert.True(t, logger.LevelEnabled(logur.Warn))
	assert.True(t, logger.LevelEnabled(logur.Error))
}

func TestKVLogger_Write(t *testing.T) {
	observedLogs, logs := observer.New(zap.InfoLevel)
	logger := NewKV(zap.New(observedLogs))

	logger.Write([]byte(`event="server started" address=":8080"`))
	logger.Write([]byte("plain line\n"))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "server started", logs.All()[0].Message)
	assert.Equal(t, ":8080", logs.All()[0].ContextMap()["address"])
	assert.Equal(t, "plain line", logs.All()[1].Message)
}
