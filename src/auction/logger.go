package auction

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents severity.
type LogLevel = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel = zap.NewAtomicLevelAt(LevelInfo)

var baseLogger atomic.Pointer[zap.SugaredLogger]

func init() {
	baseLogger.Store(newConsoleLogger())
}

func newConsoleLogger() *zap.SugaredLogger {
	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), currentLevel)
	return zap.New(core).Sugar()
}

// SetLogger swaps the underlying zap logger (tests, embedding). Messages below the
// SetLogLevel threshold are dropped before they reach it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	baseLogger.Store(l.Sugar())
}

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	currentLevel.SetLevel(l)
}

// ValidLogLevel reports whether s names a level accepted by SetLogLevel.
func ValidLogLevel(s string) bool {
	_, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return currentLevel.Level() }

func logf(l LogLevel, format string, args ...interface{}) {
	if !currentLevel.Enabled(l) {
		return
	}
	lg := baseLogger.Load()
	// Plain messages are passed through untouched so literal % signs survive.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	switch l {
	case LevelDebug:
		lg.Debug(msg)
	case LevelWarn:
		lg.Warn(msg)
	case LevelError:
		lg.Error(msg)
	default:
		lg.Info(msg)
	}
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
