package ports

import "go.uber.org/zap"

// Logger is the printf-style logging interface every component takes by
// injection. It mirrors the shape of the match runtime's logger so adapters
// stay trivial.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ZapLogger adapts a zap sugared logger to the Logger interface.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps the given sugared logger.
func NewZapLogger(s *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{s: s}
}

func (l *ZapLogger) Debug(format string, v ...interface{}) { l.s.Debugf(format, v...) }
func (l *ZapLogger) Info(format string, v ...interface{})  { l.s.Infof(format, v...) }
func (l *ZapLogger) Warn(format string, v ...interface{})  { l.s.Warnf(format, v...) }
func (l *ZapLogger) Error(format string, v ...interface{}) { l.s.Errorf(format, v...) }

// NopLogger discards everything. Useful as a default when no logger is wired.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
