package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/fautil/internal/config"
)

// New creates a structured logger from the resolved log settings. Serialized
// logs are JSON, otherwise console encoded; log.file_path is written in
// addition to stderr.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zcfg.Encoding = "console"
	if cfg.Serialize {
		zcfg.Encoding = "json"
	}
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.StacktraceKey = "stacktrace"
	zcfg.DisableStacktrace = false
	if cfg.FilePath != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.FilePath)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a configured level name onto a zap level. TRACE folds into
// debug, SUCCESS into info and CRITICAL into error; unknown names fall back
// to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR", "CRITICAL":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
