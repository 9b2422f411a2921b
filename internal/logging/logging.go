// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFileName is created in the system temp directory
const DefaultFileName = "video_downloader.log"

// Options configures the logger
type Options struct {
	File    string // log file path, empty uses DefaultPath
	Level   string // debug, info, warn, error; empty is debug
	Console bool   // also write human readable output to stderr
}

// DefaultPath returns the default log file location
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// ParseLevel parses a level name, defaulting to debug
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zapcore.DebugLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.DebugLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// New builds a JSON file logger. When the file cannot be opened the logger
// falls back to stderr and records why.
func New(opts Options) (*zap.Logger, string) {
	path := opts.File
	if path == "" {
		path = DefaultPath()
	}
	level, levelErr := ParseLevel(opts.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	var fileErr error
	if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), level))
	} else {
		fileErr = err
		path = ""
	}

	if opts.Console || fileErr != nil {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if fileErr != nil {
		logger.Error("failed to open log file, logging to console", zap.Error(fileErr))
	}
	if levelErr != nil {
		logger.Warn("using debug level", zap.Error(levelErr))
	}
	return logger, path
}
