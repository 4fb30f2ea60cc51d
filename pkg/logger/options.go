package logger

import (
	"errors"

	"go.uber.org/zap/zapcore"
)

type Option func(*ZapLogger)

// WithOutput replaces stdout as the console sink.
func WithOutput(out zapcore.WriteSyncer) Option {
	return func(l *ZapLogger) {
		l.out = out
	}
}

func (l *ZapLogger) validate() error {
	if l.maxSize <= 0 {
		return errors.New("invalid maxSize: must be > 0")
	}

	if l.maxBackups <= 0 {
		return errors.New("invalid maxBackups: must be > 0")
	}

	if l.maxAge <= 0 {
		return errors.New("invalid maxAge: must be > 0")
	}

	if l.out == nil {
		return errors.New("invalid output: must not be nil")
	}
	return nil
}
