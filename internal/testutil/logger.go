package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewLogger returns a logger that writes through t.Log
func NewLogger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}

// NewObservedLogger returns a logger and the recorded entries at level and above
func NewObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}
