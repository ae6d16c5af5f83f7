package logger

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DEBUG = zapcore.DebugLevel
	INFO  = zapcore.InfoLevel
	WARN  = zapcore.WarnLevel
	ERROR = zapcore.ErrorLevel
	FATAL = zapcore.FatalLevel
)

// Logger is a printf-style leveled logger tagged with the name of the
// component that owns it.
type Logger struct {
	sugar   *zap.SugaredLogger
	level   zap.AtomicLevel
	service string
}

func New(service string) *Logger {
	level := zap.NewAtomicLevelAt(levelFromEnv(os.Getenv("LOG_LEVEL")))

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.CallerKey = ""
	encCfg.StacktraceKey = ""
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if os.Getenv("LOG_COLORS") == "false" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		level,
	)

	return newWithCore(core, level, service)
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	level := zap.NewAtomicLevelAt(FATAL)
	return &Logger{
		sugar: zap.NewNop().Sugar(),
		level: level,
	}
}

func newWithCore(core zapcore.Core, level zap.AtomicLevel, service string) *Logger {
	base := zap.New(core)
	if service != "" {
		base = base.Named(service)
	}
	return &Logger{
		sugar:   base.Sugar(),
		level:   level,
		service: service,
	}
}

func levelFromEnv(value string) Level {
	switch strings.ToUpper(value) {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Named returns a child logger for a sub-component, sharing level and output.
func (l *Logger) Named(service string) *Logger {
	return &Logger{
		sugar:   l.sugar.Named(service),
		level:   l.level,
		service: service,
	}
}

// With returns a logger that attaches the given key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		sugar:   l.sugar.With(keysAndValues...),
		level:   l.level,
		service: l.service,
	}
}

func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatal logs and exits the process with status 1.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// SetStdLog redirects standard log package to use this logger
func (l *Logger) SetStdLog() {
	log.SetOutput(&stdLogWriter{logger: l})
	log.SetFlags(0)
}

type stdLogWriter struct {
	logger *Logger
}

func (w *stdLogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	w.logger.Info("%s", msg)
	return len(p), nil
}
