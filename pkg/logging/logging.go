package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents a leveled logger
var Logger = NewLeveledLogger(0, os.Stderr)

// LeveledLogger maps the 0-9 verbosity scale onto zerolog levels.
type LeveledLogger struct {
	log zerolog.Logger
}

// Options configures Initialize.
type Options struct {
	Level int
	// File, when set, receives the log through a size-rotated writer instead of stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// JSON switches the stderr output from console format to JSON lines.
	JSON bool
}

// NewLeveledLogger creates a new leveled logger writing to w
func NewLeveledLogger(level int, w io.Writer) *LeveledLogger {
	l := &LeveledLogger{
		log: zerolog.New(w).With().Timestamp().Logger(),
	}
	l.SetLevel(level)
	return l
}

// SetLevel sets the log level
func (l *LeveledLogger) SetLevel(level int) {
	l.log = l.log.Level(zerologLevel(level))
}

// Debug logs at debug level (level 5-9)
func (l *LeveledLogger) Debug(format string, v ...interface{}) {
	l.log.Debug().Msg(fmt.Sprintf(format, v...))
}

// Info logs at info level (level 3-9)
func (l *LeveledLogger) Info(format string, v ...interface{}) {
	l.log.Info().Msg(fmt.Sprintf(format, v...))
}

// Warn logs at warning level (level 1-9)
func (l *LeveledLogger) Warn(format string, v ...interface{}) {
	l.log.Warn().Msg(fmt.Sprintf(format, v...))
}

// Error logs at error level (level 0-9)
func (l *LeveledLogger) Error(format string, v ...interface{}) {
	l.log.Error().Msg(fmt.Sprintf(format, v...))
}

func zerologLevel(level int) zerolog.Level {
	switch {
	case level >= 5:
		return zerolog.DebugLevel
	case level >= 3:
		return zerolog.InfoLevel
	case level >= 1:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Initialize initializes the global logger. Stdout is never used since it
// carries the stdio transport.
func Initialize(opts Options) io.Closer {
	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch {
	case opts.File != "":
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
		}
		w, closer = rotator, rotator
	case opts.JSON:
		w = os.Stderr
	default:
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	Logger = NewLeveledLogger(opts.Level, w)
	return closer
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Debug logs through the global logger.
func Debug(format string, v ...interface{}) { Logger.Debug(format, v...) }

// Info logs through the global logger.
func Info(format string, v ...interface{}) { Logger.Info(format, v...) }

// Warn logs through the global logger.
func Warn(format string, v ...interface{}) { Logger.Warn(format, v...) }

// Error logs through the global logger.
func Error(format string, v ...interface{}) { Logger.Error(format, v...) }

// With returns a child zerolog logger of the global logger.
func With() zerolog.Context {
	return Logger.log.With()
}
