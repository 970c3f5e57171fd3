// Package logging wraps go.uber.org/zap behind a small leveled-field
// interface, in the idiom of go.viam.com/rdk/logging: components take a
// Logger at construction time instead of reaching for a package-global.
package logging

import "go.uber.org/zap"

// Logger is the leveled, structured logging surface threaded through
// transport, session and motion. It mirrors the subset of
// go.viam.com/rdk/logging that this module actually needs.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Named(name string) Logger
}

type zapLogger struct {
	z *zap.SugaredLogger
}

// New builds a production-configured Logger (JSON encoding, info level).
func New() Logger {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z.Sugar()}
}

// NewDevelopment builds a Logger tuned for local development: console
// encoding, debug verbosity.
func NewDevelopment() Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z.Sugar()}
}

// NewNop returns a Logger that discards everything, for tests and
// callers that don't want a logging dependency.
func NewNop() Logger {
	return &zapLogger{z: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debugw(msg string, kv ...interface{}) { l.z.Debugw(msg, kv...) }
func (l *zapLogger) Infow(msg string, kv ...interface{})  { l.z.Infow(msg, kv...) }
func (l *zapLogger) Warnw(msg string, kv ...interface{})  { l.z.Warnw(msg, kv...) }
func (l *zapLogger) Errorw(msg string, kv ...interface{}) { l.z.Errorw(msg, kv...) }

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}
