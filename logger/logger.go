// Package logger wraps a zap sugared logger with key/value helpers and
// redaction of credentials.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// Options configures New
type Options struct {
	// Debug enables debug level output. When false New returns a no-op logger.
	Debug bool

	// File is the log destination. The TUI owns the terminal, so interactive
	// runs should always log to a file. Empty means stderr.
	File string
}

func New(opts Options) (*Logger, error) {
	if !opts.Debug {
		return Nop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.File != "" {
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(keysAndValues)...)}
}

func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.TrimSpace(strings.ToLower(fmt.Sprint(kv[i])))
		out = append(out, kv[i], sanitizeValue(key, kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val interface{}) interface{} {
	if isRedactKey(key) {
		return "[REDACTED]"
	}
	if s, ok := val.(string); ok {
		return RedactURL(s)
	}
	return val
}

func isRedactKey(key string) bool {
	switch {
	case key == "key",
		strings.Contains(key, "api_key"),
		strings.Contains(key, "apikey"),
		strings.Contains(key, "token"),
		strings.Contains(key, "secret"),
		strings.Contains(key, "authorization"):
		return true
	default:
		return false
	}
}

// RedactURL masks every key= query parameter embedded in a string
func RedactURL(s string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(s[i:], "key=")
		if idx < 0 {
			break
		}
		idx += i
		vstart := idx + len("key=")
		// only treat it as a query parameter
		if idx > 0 && s[idx-1] != '?' && s[idx-1] != '&' {
			b.WriteString(s[i:vstart])
			i = vstart
			continue
		}
		b.WriteString(s[i:vstart])
		b.WriteString("***")
		end := strings.IndexAny(s[vstart:], "&\" ")
		if end < 0 {
			return b.String()
		}
		i = vstart + end
	}
	b.WriteString(s[i:])
	return b.String()
}
