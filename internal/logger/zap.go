// Package logger provides a logging abstraction layer with structured logging capabilities
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	logger *zap.Logger
}

// Option represents a configuration option for the logger
type Option func(*zap.Config) error

// NewLogger creates a new Logger implementation using Zap
func NewLogger(opts ...Option) (Logger, error) {
	config := zap.NewProductionConfig()

	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &zapLogger{logger: logger}, nil
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debug(msg, convertFields(fields...)...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.logger.Info(msg, convertFields(fields...)...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warn(msg, convertFields(fields...)...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.logger.Error(msg, convertFields(fields...)...)
}

func (l *zapLogger) Fatal(msg string, fields ...Field) {
	l.logger.Fatal(msg, convertFields(fields...)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{
		logger: l.logger.With(convertFields(fields...)...),
	}
}

// convertFields converts our Field type to zap.Field
func convertFields(fields ...Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		zapFields[i] = zap.Any(field.Key, field.Value)
	}
	return zapFields
}

// WithLevel sets the minimum log level
func WithLevel(level string) Option {
	return func(cfg *zap.Config) error {
		var zapLevel zapcore.Level
		if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(zapLevel)
		return nil
	}
}

// WithConsoleFormat switches from the JSON encoder to the console encoder
func WithConsoleFormat() Option {
	return func(cfg *zap.Config) error {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		return nil
	}
}

// WithOutputPaths sets the output paths for the logger
func WithOutputPaths(paths ...string) Option {
	return func(cfg *zap.Config) error {
		cfg.OutputPaths = paths
		return nil
	}
}
