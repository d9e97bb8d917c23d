package zapadapter

import (
	"regexp"
	"strings"

	"github.com/ankproject/ank-api/pkg/logging"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"logur.dev/logur"
)

var reLegacyStructLog = regexp.MustCompile(`(\w+)="([^"]+)"`)

// kvLogger is a Logur adapter for Uber's Zap.
type kvLogger struct {
	zapLogger *zap.SugaredLogger
	core      zapcore.Core
}

// NewKV returns a new Logur kvLogger.
// If logger is nil, a default global instance is used.
func NewKV(logger *zap.Logger) *kvLogger {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.WithOptions(zap.AddCallerSkip(1))

	return &kvLogger{
		zapLogger: logger.Sugar(),
		core:      logger.Core(),
	}
}

// NewNamedKV builds a zap logger from opts and wraps it.
// Info level gets the production config, everything else the development one.
func NewNamedKV(name string, opts logging.LoggingOpts) *kvLogger {
	var cfg zap.Config

	if opts.Level() == logging.LevelInfo {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if opts.Format() != "" {
		cfg.Encoding = opts.Format()
	}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return NewKV(l.Named(name))
}

// Trace implements the Logur kvLogger interface.
func (l *kvLogger) Trace(msg string, keyvals ...interface{}) {
	// Fall back to Debug
	l.Debug(msg, keyvals...)
}

// Debug implements the Logur kvLogger interface.
func (l *kvLogger) Debug(msg string, keyvals ...interface{}) {
	if !l.core.Enabled(zap.DebugLevel) {
		return
	}
	l.zapLogger.Debugw(msg, keyvals...)
}

// Info implements the Logur kvLogger interface.
func (l *kvLogger) Info(msg string, keyvals ...interface{}) {
	if !l.core.Enabled(zap.InfoLevel) {
		return
	}
	l.zapLogger.Infow(msg, keyvals...)
}

// Warn implements the Logur kvLogger interface.
func (l *kvLogger) Warn(msg string, keyvals ...interface{}) {
	if !l.core.Enabled(zap.WarnLevel) {
		return
	}
	l.zapLogger.Warnw(msg, keyvals...)
}

// Error implements the Logur kvLogger interface.
func (l *kvLogger) Error(msg string, keyvals ...interface{}) {
	if !l.core.Enabled(zap.ErrorLevel) {
		return
	}
	l.zapLogger.Errorw(msg, keyvals...)
}

func (l *kvLogger) Fatal(msg string, keyvals ...interface{}) {
	l.zapLogger.Fatalw(msg, keyvals...)
}

func (l *kvLogger) With(keyvals ...interface{}) logging.KVLogger {
	newLogger := l.zapLogger.With(keyvals...)
	return &kvLogger{
		zapLogger: newLogger,
		core:      newLogger.Desugar().Core(),
	}
}

// LevelEnabled implements the Logur LevelEnabler interface.
func (l *kvLogger) LevelEnabled(level logur.Level) bool {
	switch level {
	case logur.Trace:
		return l.core.Enabled(zap.DebugLevel)
	case logur.Debug:
		return l.core.Enabled(zap.DebugLevel)
	case logur.Info:
		return l.core.Enabled(zap.InfoLevel)
	case logur.Warn:
		return l.core.Enabled(zap.WarnLevel)
	case logur.Error:
		return l.core.Enabled(zap.ErrorLevel)
	}

	return true
}

// Write lets the logger stand in for an io.Writer of libraries that log
// key="value" lines through the standard logger.
func (l *kvLogger) Write(p []byte) (n int, err error) {
	message := strings.TrimSpace(string(p))
	matches := reLegacyStructLog.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		l.zapLogger.Info(message)
		return len(p), nil
	}
	fields := make([]any, 0, 2*(len(matches)-1))
	for _, m := range matches[1:] {
		fields = append(fields, m[1], m[2])
	}
	event := matches[0][2]
	l.zapLogger.Infow(event, fields...)

	return len(p), nil
}

func init() {
	l, _ := zap.NewDevelopmentConfig().Build()
	zap.ReplaceGlobals(l)
}
