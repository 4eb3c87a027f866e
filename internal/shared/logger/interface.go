package logger

import (
	"log/slog"
	"os"
)

// Interface is the logging contract the rest of the codebase depends on.
// The *w variants take alternating key/value pairs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
}

type slogAdapter struct {
	l *slog.Logger
}

// NewLogger returns an Interface backed by the process-wide slog logger.
func NewLogger() Interface {
	return &slogAdapter{l: Get()}
}

// NewLoggerWithSlog wraps an explicit slog.Logger, mainly for tests.
func NewLoggerWithSlog(sl *slog.Logger) Interface {
	return &slogAdapter{l: sl}
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

func (a *slogAdapter) Fatal(msg string, args ...any) {
	a.l.Error(msg, args...)
	os.Exit(1)
}

func (a *slogAdapter) With(args ...any) Interface {
	return &slogAdapter{l: a.l.With(args...)}
}

func (a *slogAdapter) Named(name string) Interface {
	return &slogAdapter{l: a.l.With("logger", name)}
}

func (a *slogAdapter) Debugw(msg string, keysAndValues ...interface{}) {
	a.l.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Infow(msg string, keysAndValues ...interface{}) {
	a.l.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warnw(msg string, keysAndValues ...interface{}) {
	a.l.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Errorw(msg string, keysAndValues ...interface{}) {
	a.l.Error(msg, keysAndValues...)
}

func (a *slogAdapter) Fatalw(msg string, keysAndValues ...interface{}) {
	a.l.Error(msg, keysAndValues...)
	os.Exit(1)
}
