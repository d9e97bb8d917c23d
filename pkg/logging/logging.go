package logging

import (
	"context"

	"logur.dev/logur"
)

type ctxKey int

const loggingContextKey ctxKey = iota

const (
	LevelDebug = "debug"
	LevelInfo  = "info"

	FormatJSON    = "json"
	FormatConsole = "console"
)

type KVLogger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Fatal(msg string, keyvals ...interface{})
	With(keyvals ...interface{}) KVLogger
}

// LoggingOpts selects level and output format for newly created loggers.
type LoggingOpts struct {
	level  string
	format string
}

func NewLoggingOpts(level, format string) LoggingOpts {
	return LoggingOpts{level: level, format: format}
}

func (o LoggingOpts) Level() string {
	return o.level
}

func (o LoggingOpts) Format() string {
	return o.format
}

type NoopKVLogger struct {
	logur.NoopKVLogger
}

func (l NoopKVLogger) Fatal(msg string, keyvals ...interface{}) {}

func (l NoopKVLogger) With(keyvals ...interface{}) KVLogger {
	return l
}

func AddToContext(ctx context.Context, l KVLogger) context.Context {
	return context.WithValue(ctx, loggingContextKey, l)
}

func GetFromContext(ctx context.Context) KVLogger {
	l, ok := ctx.Value(loggingContextKey).(KVLogger)
	if !ok {
		return NoopKVLogger{}
	}
	return l
}
