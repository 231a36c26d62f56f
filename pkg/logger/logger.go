package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how the logger is built
type Config struct {
	Level  string // "debug", "info", "warn" or "error"
	Format string // "json" or "console"
}

// Logger wraps a zap logger so packages only depend on this package
type Logger struct {
	*zap.Logger
}

// Field is a structured log field
type Field = zap.Field

// New creates a logger writing to stderr
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return &Logger{zap.New(core, zap.AddCaller())}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zap.NewNop()}
}

// Named returns a child logger with the given name segment
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.Logger.Named(name)}
}

// With returns a child logger carrying the given fields
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l.Logger.With(fields...)}
}

// String constructs a string field
func String(key, val string) Field { return zap.String(key, val) }

// Int constructs an int field
func Int(key string, val int) Field { return zap.Int(key, val) }

// Int64 constructs an int64 field
func Int64(key string, val int64) Field { return zap.Int64(key, val) }

// Float constructs a float64 field
func Float(key string, val float64) Field { return zap.Float64(key, val) }

// Bool constructs a bool field
func Bool(key string, val bool) Field { return zap.Bool(key, val) }

// Duration constructs a duration field
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

// Time constructs a time field
func Time(key string, val time.Time) Field { return zap.Time(key, val) }

// Any constructs a field from an arbitrary value
func Any(key string, val interface{}) Field { return zap.Any(key, val) }

// Error constructs an "error" field
func Error(err error) Field { return zap.Error(err) }
