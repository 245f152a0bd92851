// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at tinythings (https://github.com/tinythings).
// Copyright 2020-present tinythings, Inc.

// Package logging is the process-wide logger used by every sensor and by the
// demo CLI. It wraps a single *zap.SugaredLogger behind package-level
// functions so call sites never have to thread a logger through sensor
// constructors, mirroring how a global logging package is normally reached
// for in this codebase.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	logger = mustBuild(zapcore.InfoLevel)
}

func mustBuild(level zapcore.Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a malformed
		// sink/encoder registration, which can't happen with defaults.
		panic(err)
	}
	return l.Sugar()
}

// SetLevel reconfigures the process-wide logger's minimum level. Safe to
// call concurrently with any of the log functions below.
func SetLevel(level zapcore.Level) {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = mustBuild(level)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(template string, args ...any) { current().Debugf(template, args...) }
func Infof(template string, args ...any)  { current().Infof(template, args...) }
func Warnf(template string, args ...any)  { current().Warnf(template, args...) }
func Errorf(template string, args ...any) { current().Errorf(template, args...) }
