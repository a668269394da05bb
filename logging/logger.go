package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Warning
	Error
)

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root  = build(zapcore.Lock(os.Stderr))
)

func build(sink zapcore.WriteSyncer) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), sink, level)
	return zap.New(core)
}

// New creates a named logger.
func New(name string) *zap.SugaredLogger {
	return root.Named(name).Sugar()
}

// SetSink overrides the output sink of loggers created after the call.
func SetSink(sink zapcore.WriteSyncer) {
	root = build(sink)
}

// SetLevel sets the verbosity of every logger.
func SetLevel(l Level) {
	switch l {
	case Debug:
		level.SetLevel(zapcore.DebugLevel)
	case Info:
		level.SetLevel(zapcore.InfoLevel)
	case Warning:
		level.SetLevel(zapcore.WarnLevel)
	case Error:
		level.SetLevel(zapcore.ErrorLevel)
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = root.Sync()
}
