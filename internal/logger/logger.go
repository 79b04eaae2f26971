// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger holds the process-wide structured logger. Components take a
// *zap.SugaredLogger and fall back to Logger when given nil; Logger is a
// no-op until Initialize runs, so library code never depends on setup order.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured log lines.
const (
	FieldIdentifier = "identifier"
	FieldDOI        = "doi"
	FieldSource     = "source"
	FieldQuery      = "query"
	FieldAttempt    = "attempt"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRequestID  = "request_id"
	FieldCount      = "count"
	FieldError      = "error"
)

var (
	// Logger is the global logger.
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize selected JSON encoding.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. JSON output uses the zap production
// encoder; otherwise a console encoder writes to stderr so stdout stays free
// for command output. Unknown levels fall back to info.
func Initialize(jsonOutput bool, level string) error {
	JSONOutput = jsonOutput
	lvl := parseLevel(level)

	var (
		zl  *zap.Logger
		err error
	)
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.OutputPaths = []string{"stderr"}
		zl, err = cfg.Build()
	} else {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(os.Stderr),
			lvl,
		))
	}
	if err != nil {
		return err
	}

	Logger = zl.Sugar()
	return nil
}

// Or returns l when non-nil and the global logger otherwise.
func Or(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l != nil {
		return l
	}
	return Logger
}

// Sync flushes buffered log entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Logger.Sync()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
