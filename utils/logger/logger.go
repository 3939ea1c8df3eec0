package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process logger. It discards everything until Init runs, so
// packages and tests can log without setup.
var Log = zap.NewNop().Sugar()

// New builds a zap logger writing to stdout.
// level: debug|info|warn|error; encoding: json|console.
func New(level, encoding string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if encoding == "" {
		encoding = "json"
	}

	config := zap.Config{
		Encoding:         encoding, // json or console
		Level:            zap.NewAtomicLevelAt(lvl),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger.Sugar(), nil
}

// Init replaces Log.
func Init(level, encoding string) error {
	l, err := New(level, encoding)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Named returns a child of Log tagged with a component name.
func Named(name string) *zap.SugaredLogger {
	return Log.Named(name)
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = Log.Sync()
}

// Convenience functions
func Infof(template string, args ...interface{}) {
	Log.Infof(template, args...)
}

func Errorf(template string, args ...interface{}) {
	Log.Errorf(template, args...)
}
