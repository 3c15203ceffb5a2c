package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects verbosity and where log lines go.
type Options struct {
	// Level is debug, info, warn (or warning) or error (or critical). Anything else means info.
	Level string
	// File, when set, receives every log line in addition to stderr.
	File string
	// Development switches to colored levels and stack traces on warn.
	Development bool
}

// levelAliases accepts the Python logging spellings still found in .env files.
var levelAliases = map[string]string{
	"warning":  "warn",
	"critical": "error",
}

// ParseLevel maps a level name to a zap level, falling back to info.
func ParseLevel(level string) (zapcore.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(level))
	if alias, ok := levelAliases[name]; ok {
		name = alias
	}
	l, err := zapcore.ParseLevel(name)
	if err != nil || level == "" {
		return zapcore.InfoLevel, level == ""
	}
	return l, true
}

// NewLogger creates a zap logger writing human-readable lines to stderr and
// optionally to a log file.
func NewLogger(opts Options) (*zap.Logger, error) {
	var config zap.Config

	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.Encoding = "console"
		config.Sampling = nil
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level, known := ParseLevel(opts.Level)
	config.Level = zap.NewAtomicLevelAt(level)

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		config.OutputPaths = append(config.OutputPaths, opts.File)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	if !known {
		logger.Warn("unknown log level, using info", zap.String("level", opts.Level))
	}
	return logger, nil
}

// MustNewLogger creates a new logger and panics if it fails
func MustNewLogger(opts Options) *zap.Logger {
	logger, err := NewLogger(opts)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
