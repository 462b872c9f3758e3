// Package logger builds the zap logger used by the shellbags command.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joshuapare/shellbags/internal/config"
)

// Logger is a zap logger together with the log file it writes to, if any.
type Logger struct {
	*zap.Logger
	file *os.File
}

// New creates a logger from configuration. Records go to stderr unless the
// configuration names stdout or a file, so they never mix with report rows
// printed on stdout. Callers must Close the logger.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	ws, file, err := buildWriter(cfg.Output)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(buildEncoder(cfg.Format), ws, parseLevel(cfg.Level))
	return &Logger{
		Logger: zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)),
		file:   file,
	}, nil
}

// Close flushes buffered entries and closes the log file. Flush errors on
// the standard streams are ignored; terminals and pipes reject fsync.
func (l *Logger) Close() error {
	if l.file == nil {
		_ = l.Logger.Sync()
		return nil
	}
	if err := l.Logger.Sync(); err != nil {
		return err
	}
	return l.file.Close()
}

// parseLevel converts string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func buildEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func buildWriter(output string) (zapcore.WriteSyncer, *os.File, error) {
	switch output {
	case "stderr", "":
		return zapcore.Lock(os.Stderr), nil, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return zapcore.AddSync(f), f, nil
	}
}
