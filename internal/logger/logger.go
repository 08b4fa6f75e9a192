package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger is a leveled logger on top of zerolog. Derived loggers share the
// underlying writer.
type Logger struct {
	zl       zerolog.Logger
	out      io.Writer
	level    Level
	prefix   string
	colorize bool
	json     bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the output destination.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithPrefix sets the component name attached to every line.
func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.prefix = prefix
	}
}

// WithColors enables or disables colorized console output.
func WithColors(enabled bool) Option {
	return func(l *Logger) {
		l.colorize = enabled
	}
}

// WithJSON switches output to one JSON object per line.
func WithJSON(enabled bool) Option {
	return func(l *Logger) {
		l.json = enabled
	}
}

// New creates a new Logger with the given options.
func New(opts ...Option) *Logger {
	l := &Logger{
		out:      os.Stdout,
		level:    INFO,
		colorize: true,
	}
	for _, opt := range opts {
		opt(l)
	}

	w := l.out
	if !l.json {
		w = zerolog.ConsoleWriter{
			Out:        l.out,
			NoColor:    !l.colorize,
			TimeFormat: "2006-01-02 15:04:05.000",
		}
	}

	ctx := zerolog.New(w).Level(l.level.zerolog()).With().Timestamp()
	if l.prefix != "" {
		ctx = ctx.Str("component", l.prefix)
	}
	l.zl = ctx.Logger()
	return l
}

var defaultLogger = New()

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

func (l *Logger) derive(zl zerolog.Logger) *Logger {
	return &Logger{
		zl:       zl,
		out:      l.out,
		level:    l.level,
		prefix:   l.prefix,
		colorize: l.colorize,
		json:     l.json,
	}
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.derive(l.zl.With().Interface(key, value).Logger())
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.derive(l.zl.With().Fields(fields).Logger())
}

// WithPrefix returns a new logger tagged with the given component.
func (l *Logger) WithPrefix(prefix string) *Logger {
	nl := l.derive(l.zl.With().Str("component", prefix).Logger())
	nl.prefix = prefix
	return nl
}

func (l *Logger) log(ev *zerolog.Event, msg string, args ...any) {
	if ev == nil {
		return
	}
	if len(args) > 0 {
		ev.Msgf(msg, args...)
		return
	}
	ev.Msg(msg)
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(l.zl.Debug(), msg, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.log(l.zl.Info(), msg, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(l.zl.Warn(), msg, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.log(l.zl.Error(), msg, args...)
}

// Since logs msg at DEBUG with the elapsed time since start attached.
func (l *Logger) Since(start time.Time, msg string) {
	l.zl.Debug().Dur("elapsed", time.Since(start)).Msg(msg)
}

// Package-level functions that use the default logger.

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

// Context key for request-scoped logger.
type ctxKey struct{}

// FromContext returns the logger from the context, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return defaultLogger
	}
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// NewContext returns a new context with the given logger.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
