package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled logging throughout the application. Messages are
// printf-style; structured fields can be attached with With.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a console Logger writing to stdout (errors to stderr).
// Debug messages are only emitted when debug is true.
func NewLogger(debug bool) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.CallerKey = ""
	encCfg.StacktraceKey = ""

	enc := zapcore.NewConsoleEncoder(encCfg)
	atLevel := zap.NewAtomicLevelAt(level)
	belowError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return atLevel.Enabled(l) && l < zapcore.ErrorLevel
	})
	errorAndUp := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), belowError),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), errorAndUp),
	)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// NewLoggerFrom wraps an existing zap logger.
func NewLoggerFrom(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

// With returns a child Logger that adds the given key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
