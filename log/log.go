// Package log owns the library logger. The default logger writes console
// lines to stderr at info level; Configure switches it to json or file
// output with size-based rotation.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls destination, format and verbosity.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console or json
	Output     string // stdout, stderr or a file path
	MaxSize    int    // megabytes per log file before rotation
	MaxBackups int    // rotated files kept
	MaxAge     int    // days a rotated file is kept
	Compress   bool   // gzip rotated files
}

var logger = defaultLogger()

// L returns the current library logger.
func L() *zap.Logger {
	return logger
}

// SetLogger replaces the library logger, for callers that already carry
// their own. A nil logger is ignored.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// Configure rebuilds the library logger from cfg.
func Configure(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	sink, err := openSink(cfg)
	if err != nil {
		return err
	}
	core := zapcore.NewCore(newEncoder(cfg.Format), sink, level)
	logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func defaultLogger() *zap.Logger {
	core := zapcore.NewCore(newEncoder("console"), zapcore.AddSync(os.Stderr), zapcore.InfoLevel)
	return zap.New(core)
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	if format == "json" {
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func openSink(cfg Config) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "", "stderr":
		return zapcore.AddSync(os.Stderr), nil
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}), nil
	}
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %q", s)
}
