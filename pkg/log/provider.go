// Package log provides the zerolog-backed default logger provider.
//
// This file contains the concrete Logger implementation built on
// github.com/rs/zerolog and the package-level provider registry. Library
// packages obtain their component loggers through GetLoggerWithName, and
// tests swap in a TestLoggerProvider via SetProvider to capture output.

package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// Debug implements Logger.Debug.
func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.zl.Debug(), msg, fields...)
}

// Info implements Logger.Info.
func (z *zerologLogger) Info(msg string, fields ...any) {
	z.emit(z.zl.Info(), msg, fields...)
}

// Warn implements Logger.Warn.
func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.zl.Warn(), msg, fields...)
}

// Error implements Logger.Error.
func (z *zerologLogger) Error(msg string, fields ...any) {
	z.emit(z.zl.Error(), msg, fields...)
}

// With implements Logger.With.
func (z *zerologLogger) With(fields ...any) Logger {
	if len(fields) == 0 {
		return z
	}
	return &zerologLogger{zl: z.zl.With().Fields(fields).Logger()}
}

// Enabled implements Logger.Enabled.
func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

// emit attaches structured fields to the event and writes it.
// A lone leading error value is promoted to the standard error field so
// the stack trace marshaling of zerolog applies to it.
func (z *zerologLogger) emit(e *zerolog.Event, msg string, fields ...any) {
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			e = e.Err(err)
			fields = fields[1:]
		}
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Msg(msg)
}

// toZerologLevel converts a slog-compatible Level to the zerolog scale.
func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level >= LevelError:
		return zerolog.ErrorLevel
	case level >= LevelWarn:
		return zerolog.WarnLevel
	case level >= LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// ZerologProvider implements LoggerProvider on top of a single root
// zerolog.Logger. Component loggers derived by GetLoggerWithName share
// the root's output and level.
type ZerologProvider struct {
	mu   sync.RWMutex
	root zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to w.
// The initial minimum level is Info.
//
// Parameters:
//   - w: Destination for log output (os.Stderr for the package default)
//
// Returns:
//   - *ZerologProvider: A new provider instance
func NewZerologProvider(w io.Writer) *ZerologProvider {
	root := zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &ZerologProvider{root: root}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.root}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
// The name is attached as the "component" field on every record.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.root.With().Str("component", name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel.
// Loggers handed out earlier keep their previous level; call
// GetLoggerWithName again after changing the level.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = p.root.Level(toZerologLevel(level))
}

// Package-level provider registry. The default writes JSON to stderr.
var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr)
)

// SetProvider replaces the package-level provider.
// Tests use this to install a TestLoggerProvider and inspect records.
//
// Example:
//
//	provider, _ := log.NewTestLoggerProvider(log.LevelDebug)
//	log.SetProvider(provider)
func SetProvider(provider LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = provider
}

// GetProvider returns the current package-level provider.
func GetProvider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider
}

// GetLogger returns the default logger from the current provider.
func GetLogger() Logger {
	return GetProvider().GetLogger()
}

// GetLoggerWithName returns a component logger from the current provider.
//
// Example:
//
//	logger := log.GetLoggerWithName("kelm.regressor")
//	logger.Info("Training started", log.SamplesKey, 100)
func GetLoggerWithName(name string) Logger {
	return GetProvider().GetLoggerWithName(name)
}

// SetLevel sets the minimum level on the current provider.
func SetLevel(level Level) {
	GetProvider().SetLevel(level)
}
