// Package logging builds the app logger: JSON to a rotating file when a log
// path is configured, console encoding to stderr otherwise.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.TimeKey = "timestamp"
	return cfg
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.Set(level); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// New returns the logger and a flush func for shutdown.
func New(path, level string) (*zap.Logger, func()) {
	lvl := parseLevel(level)

	var core zapcore.Core
	if path != "" {
		writer := &lumberjack.Logger{
			Filename:  path,
			MaxSize:   50,
			MaxAge:    30,
			LocalTime: true,
			Compress:  true,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(writer), lvl)
	} else {
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(zapcore.AddSync(os.Stderr)), lvl)
	}

	logger := zap.New(core, zap.AddCaller())
	return logger, func() { _ = logger.Sync() }
}
