// Package logger provides a thin, structured logging wrapper used across the
// didwebvh packages. It is side-channel only: nothing it does may influence
// the bytes a resolution or mutation returns.
package logger

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Log wraps logr.Logger for portability across logging backends.
type Log struct {
	logr.Logger
}

// New creates a production or development zap-backed logger.
func New(name string, production bool) (*Log, error) {
	var zc zap.Config
	if production {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.DisableCaller = true
	zc.DisableStacktrace = true

	z, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return &Log{Logger: zapr.NewLogger(z).WithName(name)}, nil
}

// NewSimple creates a logger backed by the global zap logger, for tests and
// callers that don't need per-instance configuration.
func NewSimple(name string) *Log {
	return &Log{Logger: zapr.NewLogger(zap.L()).WithName(name)}
}

// NewNop returns a logger that discards everything, the default for callers
// that don't pass one in.
func NewNop() *Log {
	return &Log{Logger: logr.Discard()}
}

// New creates a named sub-logger.
func (l *Log) New(name string) *Log {
	if l == nil {
		return NewNop()
	}
	return &Log{Logger: l.WithName(name)}
}

// Info logs at the default verbosity.
func (l *Log) Info(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Logger.V(0).WithValues(args...).Info(msg)
}

// Debug logs gate-level detail: which entry, which check.
func (l *Log) Debug(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Logger.V(1).WithValues(args...).Info(msg)
}

// Trace logs the most verbose, byte-level detail.
func (l *Log) Trace(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Logger.V(2).WithValues(args...).Info(msg)
}
