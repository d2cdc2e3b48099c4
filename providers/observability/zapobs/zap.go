// Package zapobs adapts a *zap.Logger to observability.Logger.
package zapobs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/archmesh/archmesh/providers/observability"
)

// TraceLevel is one step below zapcore.DebugLevel.
const TraceLevel = zapcore.DebugLevel - 1

// Logger writes observability records through zap.
type Logger struct {
	zl *zap.Logger
}

var _ observability.Logger = (*Logger)(nil)

// New wraps zl. A nil zl discards everything.
func New(zl *zap.Logger) *Logger {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{zl: zl}
}

// NewProduction builds a logger from zap's production config, writing to
// stderr. format is "json" or "compact" (console encoding); level is a name
// accepted by ParseLevel.
func NewProduction(level, format string) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	config.EncoderConfig.EncodeLevel = encodeLevel
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil
	if isCompact(format) {
		config.Encoding = "console"
	}

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	return New(zl), nil
}

// NewWriter builds a logger writing to w, without sampling. format and level
// are read as in NewProduction.
func NewWriter(w io.Writer, level, format string) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = encodeLevel
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if isCompact(format) {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), ParseLevel(level))
	return New(zap.New(core))
}

func isCompact(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), "compact")
}

// ParseLevel maps trace, debug, info, warn (or warning) and error,
// case-insensitively. Unknown names yield info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return TraceLevel
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == TraceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(level, enc)
}

// Zap returns the underlying logger.
func (l *Logger) Zap() *zap.Logger { return l.zl }

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.zl.Sync() }

func (l *Logger) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	l.log(TraceLevel, msg, attrs)
}

func (l *Logger) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	l.log(zapcore.DebugLevel, msg, attrs)
}

func (l *Logger) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	l.log(zapcore.InfoLevel, msg, attrs)
}

func (l *Logger) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	l.log(zapcore.WarnLevel, msg, attrs)
}

func (l *Logger) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	l.log(zapcore.ErrorLevel, msg, attrs)
}

func (l *Logger) log(level zapcore.Level, msg string, attrs []observability.Attribute) {
	ce := l.zl.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(fields(attrs)...)
}

func fields(attrs []observability.Attribute) []zap.Field {
	out := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, zap.Any(attr.Key, attr.Value))
	}
	return out
}
