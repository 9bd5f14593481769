// Package logger builds the application's zap logger and carries
// request-scoped loggers through context.
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RFC3339Micros is the timestamp layout used by every encoder.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z07:00"

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(RFC3339Micros))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = encodeTimeMicros
	cfg.LevelKey = "severity"
	cfg.MessageKey = "message"
	cfg.CallerKey = "caller"
	return cfg
}

// New returns a logger for the given environment plus a close function
// that flushes it and releases the error file.
//
//   - dev:     console output at DEBUG
//   - staging: JSON output at DEBUG
//   - prod:    JSON output at INFO
//
// Entries at ERROR and above are additionally appended, as JSON, to
// errorFile. An empty errorFile disables the file sink.
func New(env, errorFile string) (*zap.Logger, func() error, error) {
	encCfg := encoderConfig()

	var (
		stdoutEnc zapcore.Encoder
		level     zapcore.Level
	)
	switch env {
	case "prod":
		stdoutEnc, level = zapcore.NewJSONEncoder(encCfg), zapcore.InfoLevel
	case "staging":
		stdoutEnc, level = zapcore.NewJSONEncoder(encCfg), zapcore.DebugLevel
	default:
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		stdoutEnc, level = zapcore.NewConsoleEncoder(consoleCfg), zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEnc, zapcore.Lock(os.Stdout), level),
	}

	var file *os.File
	if errorFile != "" {
		if dir := filepath.Dir(errorFile); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, fmt.Errorf("logger: create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(errorFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return nil, nil, fmt.Errorf("logger: open error file: %w", err)
		}
		file = f
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), zapcore.ErrorLevel))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closeFn := func() error {
		// Sync on stdout returns EINVAL on some platforms; only the file
		// matters.
		_ = log.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return log, closeFn, nil
}

type ctxLoggerKey struct{}

// WithContext stores a request-scoped logger in ctx.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, log)
}

// FromContext returns the logger stored by WithContext, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLoggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.NewNop()
}
